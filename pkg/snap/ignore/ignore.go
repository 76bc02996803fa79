// Package ignore decides which paths are excluded from archiving.
// It merges a fixed built-in rule set with an optional rule file found at
// the root of the folder being processed, applies a hidden-file policy, and
// honors extra user-supplied exclude patterns. Rule matching follows
// standard ignore-file semantics: later rules can re-include a path an
// earlier rule excluded, and a trailing "/" restricts a rule to directories.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
)

// DefaultRuleFile is the rule file looked up at the root of the folder
// being processed when no other name is configured.
const DefaultRuleFile = ".gitignore"

// builtinRules are always active, before any rule file contents.
var builtinRules = []string{
	"node_modules/",
	"venv/",
	".git/",
	"*.log",
	".DS_Store",
	"Thumbs.db",
}

// Options configure filter construction.
type Options struct {
	// IncludeHidden disables the leading-dot exclusion of hidden files
	// and directories.
	IncludeHidden bool

	// RuleFile is the name of the ignore rule file resolved at the root
	// of the processed folder. Empty selects DefaultRuleFile.
	RuleFile string

	// Extra holds additional user exclude patterns (glob syntax) applied
	// after the rule set.
	Extra []string
}

// Filter answers whether a relative path should be excluded.
// A Filter is built fresh per top-level operation and is not safe to
// mutate afterwards; its rule set is write-once.
type Filter struct {
	matcher       gitignore.Matcher
	extra         []glob.Glob
	includeHidden bool
	ruleCount     int
}

// Load builds a Filter for the given root folder. Built-in rules are merged
// with the contents of the rule file when one exists at the root; a missing
// rule file is not an error. Invalid extra patterns are.
func Load(root string, opts Options) (*Filter, error) {
	patterns := make([]gitignore.Pattern, 0, len(builtinRules))
	for _, rule := range builtinRules {
		patterns = append(patterns, gitignore.ParsePattern(rule, nil))
	}

	name := opts.RuleFile
	if name == "" {
		name = DefaultRuleFile
	}

	fileRules, err := readRuleFile(filepath.Join(root, name))
	if err != nil {
		return nil, err
	}
	for _, rule := range fileRules {
		patterns = append(patterns, gitignore.ParsePattern(rule, nil))
	}

	extra := make([]glob.Glob, 0, len(opts.Extra))
	for _, pattern := range opts.Extra {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		extra = append(extra, g)
	}

	return &Filter{
		matcher:       gitignore.NewMatcher(patterns),
		extra:         extra,
		includeHidden: opts.IncludeHidden,
		ruleCount:     len(patterns),
	}, nil
}

// Match reports whether the relative path should be ignored. relPath is
// slash-separated and relative to the walk root; isDir distinguishes
// directory-only rules.
func (f *Filter) Match(relPath string, isDir bool) bool {
	if !f.includeHidden && isHidden(relPath) {
		return true
	}

	if f.matcher.Match(strings.Split(relPath, "/"), isDir) {
		return true
	}

	for _, g := range f.extra {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

// RuleCount returns the number of merged built-in and rule-file patterns.
func (f *Filter) RuleCount() int {
	return f.ruleCount
}

// isHidden reports whether the final path segment starts with a dot.
func isHidden(relPath string) bool {
	base := relPath
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		base = relPath[i+1:]
	}
	return strings.HasPrefix(base, ".")
}

// readRuleFile loads one pattern per line, skipping blanks and comments.
// A missing file yields no rules.
func readRuleFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()

	var rules []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	return rules, nil
}
