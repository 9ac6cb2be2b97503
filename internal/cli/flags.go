package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/llm"
	"github.com/spf13/pflag"
)

// enumFlag is a string flag restricted to a fixed set of values.
type enumFlag struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, allowed ...string) *enumFlag {
	return &enumFlag{value: def, allowed: allowed}
}

func (f *enumFlag) String() string { return f.value }

func (f *enumFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if !slices.Contains(f.allowed, v) {
		return fmt.Errorf("must be one of %s", strings.Join(f.allowed, ", "))
	}
	f.value = v
	return nil
}

func (f *enumFlag) Type() string { return strings.Join(f.allowed, "|") }

func newKindFlag() *enumFlag {
	return newEnumFlag(string(domain.ItemText), sortedKeys(domain.ValidItemKinds)...)
}

func newBlockKindFlag() *enumFlag {
	return newEnumFlag(string(domain.BlockParagraph), sortedKeys(domain.ValidBlockKinds)...)
}

// newActionFlag lists refinement actions in their dashed CLI spelling.
func newActionFlag() *enumFlag {
	allowed := make([]string, len(llm.Actions))
	for i, a := range llm.Actions {
		allowed[i] = strings.ReplaceAll(string(a), "_", "-")
	}
	return newEnumFlag(allowed[0], allowed...)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// registerMoveFlags adds the --up/--down/--by trio used by every move command.
func registerMoveFlags(fs *pflag.FlagSet, up, down *bool, by *int) {
	fs.BoolVar(up, "up", false, "move towards the top")
	fs.BoolVar(down, "down", false, "move towards the bottom")
	fs.IntVar(by, "by", 1, "number of positions to move")
}
