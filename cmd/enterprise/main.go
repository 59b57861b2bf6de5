package main

import (
	"github.com/spf13/pflag"

	"github.com/outofforest/enterprise"
	"github.com/outofforest/enterprise/pkg/chain"
	"github.com/outofforest/enterprise/pkg/efivar"
)

func main() {
	var cfg enterprise.Config
	pflag.StringVar(&cfg.Root, "root", "", "Path to a mounted boot volume, skips block device scanning")
	pflag.StringVar(&cfg.VarDir, "efivars", efivar.DefaultDir, "Mount point of efivarfs")
	pflag.StringVar(&cfg.StageDir, "stage-dir", chain.DefaultStageDir, "Directory where boot images are staged")
	pflag.Parse()

	enterprise.Main(cfg)
}
