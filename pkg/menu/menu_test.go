package menu

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/enterprise/pkg/test"
)

type call struct {
	Index  int
	Params string
	Direct bool
}

func runMenu(t *testing.T, input string, cfg Config) ([]call, string) {
	var calls []call
	out := &bytes.Buffer{}

	if cfg.Boot == nil {
		cfg.Boot = func(ctx context.Context, index int, extraParams string) error {
			calls = append(calls, call{Index: index, Params: extraParams})
			return errors.New("launch failed")
		}
	}
	cfg.DirectBoot = func(ctx context.Context, index int, extraParams string) error {
		calls = append(calls, call{Index: index, Params: extraParams, Direct: true})
		return errors.New("launch failed")
	}

	err := Run(test.Context(t), strings.NewReader(input), out, cfg)
	require.Error(t, err)

	return calls, out.String()
}

func TestBootByNumber(t *testing.T) {
	calls, _ := runMenu(t, "1\n", Config{Names: []string{"A", "B"}})
	require.Equal(t, []call{{Index: 1}}, calls)
}

func TestBootOptionsPassedToLauncher(t *testing.T) {
	calls, out := runMenu(t, "o quiet splash\n0\n", Config{Names: []string{"A"}})
	require.Equal(t, []call{{Index: 0, Params: "quiet splash"}}, calls)
	require.Contains(t, out, "Boot options set to: quiet splash")
}

func TestPersistenceToggle(t *testing.T) {
	calls, _ := runMenu(t, "p\n0\n", Config{Names: []string{"A"}, PersistencePreset: true})
	require.Equal(t, []call{{Index: 0, Params: "persistent"}}, calls)
}

func TestPersistenceWithBootOptions(t *testing.T) {
	calls, _ := runMenu(t, "o quiet\np\n0\n", Config{Names: []string{"A"}, PersistencePreset: true})
	require.Equal(t, []call{{Index: 0, Params: "quiet persistent"}}, calls)
}

func TestPersistenceUnavailableWithoutPreset(t *testing.T) {
	calls, out := runMenu(t, "p\n0\n", Config{Names: []string{"A"}})
	require.Equal(t, []call{{Index: 0}}, calls)
	require.Contains(t, out, "No persistence file is present")
}

func TestDirectBoot(t *testing.T) {
	calls, _ := runMenu(t, "d 1\n", Config{Names: []string{"A", "B"}})
	require.Equal(t, []call{{Index: 1, Direct: true}}, calls)
}

func TestFailedLaunchReturnsToPrompt(t *testing.T) {
	calls, _ := runMenu(t, "0\n1\n", Config{Names: []string{"A", "B"}})
	require.Equal(t, []call{{Index: 0}, {Index: 1}}, calls)
}

func TestUnrecognizedCommand(t *testing.T) {
	calls, out := runMenu(t, "banana\n", Config{Names: []string{"A"}})
	require.Empty(t, calls)
	require.Contains(t, out, "Unrecognized command: banana")
}

func TestListedNames(t *testing.T) {
	_, out := runMenu(t, "l\n", Config{Names: []string{"Ubuntu Live", "Tails"}})
	require.Contains(t, out, "0. Ubuntu Live")
	require.Contains(t, out, "1. Tails")
}
