package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

// LoadKDL applies a KDL config file on top of cfg.
//
//	project { root "." }
//	scan { max_file_size "10MB"; follow_symlinks true; respect_gitignore true }
//	search { context_lines 5; highlight false; merge_windows true; progress "never" }
//	replace { workers 4 }
//	exclude "**/node_modules" "**/dist"
//	include "**/*.go"
func LoadKDL(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fsherrors.NewConfigError("config", path, err)
	}
	return applyKDL(string(content), path, cfg)
}

func applyKDL(content, path string, cfg *Config) error {
	// The parser accepts a document cut off inside a block, which would
	// silently drop the rest of the file.
	if err := checkBlocksClosed(content); err != nil {
		return fsherrors.NewConfigError("config", path, fmt.Errorf("failed to parse KDL config: %w", err))
	}

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fsherrors.NewConfigError("config", path, fmt.Errorf("failed to parse KDL config: %w", err))
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = resolveRoot(path, v) })
			}
		case "scan":
			for _, cn := range n.Children {
				if err := parseScanNode(cfg, cn); err != nil {
					return err
				}
			}
		case "search":
			for _, cn := range n.Children {
				parseSearchNode(cfg, cn)
			}
		case "replace":
			for _, cn := range n.Children {
				if nodeName(cn) == "workers" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Replace.Workers = v
					}
				}
			}
		case "include":
			cfg.Include = DeduplicatePatterns(append(cfg.Include, collectStringArgs(n)...))
		case "exclude":
			cfg.Exclude = mergeExcludes(cfg.Exclude, collectStringArgs(n))
		}
	}

	return nil
}

func parseScanNode(cfg *Config, n *document.Node) error {
	switch nodeName(n) {
	case "max_file_size":
		if s, ok := firstStringArg(n); ok {
			size, err := parseSize(s)
			if err != nil {
				return fsherrors.NewConfigError("scan.max_file_size", s, err)
			}
			cfg.Scan.MaxFileSize = size
		} else if v, ok := firstIntArg(n); ok {
			cfg.Scan.MaxFileSize = int64(v)
		}
	case "follow_symlinks":
		if v, ok := firstBoolArg(n); ok {
			cfg.Scan.FollowSymlinks = v
		}
	case "respect_gitignore":
		if v, ok := firstBoolArg(n); ok {
			cfg.Scan.RespectGitignore = v
		}
	}
	return nil
}

func parseSearchNode(cfg *Config, n *document.Node) {
	switch nodeName(n) {
	case "context_lines":
		if v, ok := firstIntArg(n); ok {
			cfg.Search.ContextLines = v
		}
	case "highlight":
		if v, ok := firstBoolArg(n); ok {
			cfg.Search.Highlight = v
		}
	case "merge_windows":
		if v, ok := firstBoolArg(n); ok {
			cfg.Search.MergeWindows = v
		}
	case "progress":
		if v, ok := firstStringArg(n); ok {
			cfg.Search.Progress = v
		}
	case "json":
		if v, ok := firstBoolArg(n); ok {
			cfg.Search.JSON = v
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case bool:
		return v, true
	case string:
		return parseBool(v), true
	default:
		return false, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// Inline form: exclude "a" "b"
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block form: exclude { "a"; "b" }, where each child node's name is the value
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// checkBlocksClosed verifies that every child block is closed, ignoring
// braces inside strings and comments.
func checkBlocksClosed(content string) error {
	depth, line := 0, 1
	for i := 0; i < len(content); i++ {
		switch c := content[i]; {
		case c == '\n':
			line++
		case c == '"':
			end, lines := skipString(content, i)
			if end < 0 {
				return fmt.Errorf("line %d: unterminated string", line)
			}
			i, line = end, line+lines
		case c == 'r' && startsToken(content, i) && i+1 < len(content) && (content[i+1] == '"' || content[i+1] == '#'):
			end, lines := skipRawString(content, i+1)
			if end < 0 {
				return fmt.Errorf("line %d: unterminated raw string", line)
			}
			i, line = end, line+lines
		case strings.HasPrefix(content[i:], "//"):
			next := strings.IndexByte(content[i:], '\n')
			if next < 0 {
				return depthError(depth)
			}
			i += next - 1
		case strings.HasPrefix(content[i:], "/*"):
			end, lines := skipBlockComment(content, i)
			if end < 0 {
				return fmt.Errorf("line %d: unterminated comment", line)
			}
			i, line = end, line+lines
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("line %d: unexpected '}'", line)
			}
		}
	}
	return depthError(depth)
}

func startsToken(content string, i int) bool {
	if i == 0 {
		return true
	}
	return strings.IndexByte(" \t\r\n{;=()", content[i-1]) >= 0
}

func depthError(depth int) error {
	if depth > 0 {
		return fmt.Errorf("%d unclosed block(s) at end of input", depth)
	}
	return nil
}

// skipString returns the index of the closing quote of the escaped string
// opening at start, or -1, plus the newlines it spans.
func skipString(content string, start int) (int, int) {
	lines := 0
	for i := start + 1; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case '\n':
			lines++
		case '"':
			return i, lines
		}
	}
	return -1, lines
}

// skipRawString handles r"..." and r#"..."# with any number of hashes;
// start points just past the 'r'.
func skipRawString(content string, start int) (int, int) {
	hashes := 0
	for start+hashes < len(content) && content[start+hashes] == '#' {
		hashes++
	}
	open := start + hashes
	if open >= len(content) || content[open] != '"' {
		// Not a raw string after all, e.g. an identifier starting with r#
		return start - 1, 0
	}
	closer := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(content[open+1:], closer)
	if end < 0 {
		return -1, 0
	}
	body := content[open+1 : open+1+end]
	return open + end + len(closer), strings.Count(body, "\n")
}

// skipBlockComment handles nested /* */ comments
func skipBlockComment(content string, start int) (int, int) {
	depth, lines := 0, 0
	for i := start; i < len(content)-1; i++ {
		switch {
		case content[i] == '\n':
			lines++
		case content[i] == '/' && content[i+1] == '*':
			depth++
			i++
		case content[i] == '*' && content[i+1] == '/':
			depth--
			i++
			if depth == 0 {
				return i, lines
			}
		}
	}
	return -1, lines
}
