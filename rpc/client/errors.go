package client

import (
	"fmt"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
	"regexp"
	"strings"
)

// errorClassifier maps the text of an error reply to an error code.
// Patterns are matched once, when the reply is received.
type errorClassifier struct {
	typeMismatch    []*regexp.Regexp
	indexOutOfRange []*regexp.Regexp
}

// classifiers caches compiled classifiers by their pattern set, so that many connections
// (e.g. of a pool) with the same configuration share one classifier
var classifiers = xsync.NewMapOf[string, *errorClassifier]()

// newErrorClassifier returns the classifier for the patterns of cfg.
// Empty pattern lists fall back to the defaults.
func newErrorClassifier(cfg common.ErrorPatterns) (*errorClassifier, error) {
	typeMismatch := cfg.TypeMismatch
	if len(typeMismatch) == 0 {
		typeMismatch = common.DefaultTypeMismatchPatterns
	}
	indexOutOfRange := cfg.IndexOutOfRange
	if len(indexOutOfRange) == 0 {
		indexOutOfRange = common.DefaultIndexOutOfRangePatterns
	}

	cacheKey := strings.Join(typeMismatch, "\x00") + "\x01" + strings.Join(indexOutOfRange, "\x00")
	if c, ok := classifiers.Load(cacheKey); ok {
		return c, nil
	}

	c := &errorClassifier{}
	var err error
	if c.typeMismatch, err = compilePatterns(typeMismatch); err != nil {
		return nil, err
	}
	if c.indexOutOfRange, err = compilePatterns(indexOutOfRange); err != nil {
		return nil, err
	}

	c, _ = classifiers.LoadOrStore(cacheKey, c)
	return c, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid error pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// classify returns the typed error for an error reply. Msg is the verbatim reply text.
func (c *errorClassifier) classify(msg string) *common.Error {
	for _, re := range c.typeMismatch {
		if re.MatchString(msg) {
			return common.NewError(common.ErrCTypeMismatch, msg)
		}
	}
	for _, re := range c.indexOutOfRange {
		if re.MatchString(msg) {
			return common.NewError(common.ErrCIndexOutOfRange, msg)
		}
	}
	return common.NewError(common.ErrCRemote, msg)
}
