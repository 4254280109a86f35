package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/translit/internal/domain/engine"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// formatTrace renders a transliteration trace: the tokenization followed
// by each matched rule in easy-reading form.
//
//	tokens: [' ' 'a' 'a' ' ']
//	  0  a a → <AA>  (cost 0.4150)
func formatTrace(eng *engine.Engine, result engine.Result) string {
	var sb strings.Builder

	quoted := make([]string, len(result.Tokens))
	for i, t := range result.Tokens {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	sb.WriteString(fmt.Sprintf("%stokens:%s [%s]\n", colorGray, colorReset, strings.Join(quoted, " ")))

	rules := eng.Rules()
	for _, idx := range result.Matched {
		rule := rules[idx]
		sb.WriteString(fmt.Sprintf("  %s%3d%s  %s → %s  %s(cost %.4f)%s\n",
			colorGray, idx, colorReset, engine.RuleString(rule), rule.Production,
			colorGray, rule.Cost, colorReset))
	}
	return sb.String()
}

// formatAmbiguity renders ambiguity reports with both rules in
// easy-reading form and the overlapping pattern per position.
func formatAmbiguity(eng *engine.Engine, reports []engine.AmbiguityReport) string {
	var sb strings.Builder
	rules := eng.Rules()

	for _, report := range reports {
		sb.WriteString(fmt.Sprintf("%s✗ ambiguous%s │ the pattern %s can be matched by both:\n",
			colorYellow, colorReset, patternString(report.Pattern)))
		sb.WriteString(fmt.Sprintf("    %s → %s\n", engine.RuleString(rules[report.RuleA]), rules[report.RuleA].Production))
		sb.WriteString(fmt.Sprintf("    %s → %s\n", engine.RuleString(rules[report.RuleB]), rules[report.RuleB].Production))
	}
	return sb.String()
}

func patternString(pattern [][]string) string {
	parts := make([]string, len(pattern))
	for i, tokens := range pattern {
		if len(tokens) == 1 {
			parts[i] = fmt.Sprintf("%q", tokens[0])
		} else {
			parts[i] = "{" + strings.Join(tokens, ",") + "}"
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
