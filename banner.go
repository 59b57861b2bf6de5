package enterprise

const (
	versionMajor = 0
	versionMinor = 4
	versionPatch = 1
)

const banner = `
    ______      __                       _
   / ____/___  / /____  _________  _____(_)_______
  / __/ / __ \/ __/ _ \/ ___/ __ \/ ___/ / ___/ _ \
 / /___/ / / / /_/  __/ /  / /_/ / /  / (__  )  __/
/_____/_/ /_/\__/\___/_/  / .___/_/  /_/____/\___/
                         /_/

Enterprise %d.%d.%d

`
