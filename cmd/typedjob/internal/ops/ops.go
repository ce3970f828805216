// Package ops holds the built-in work functions 'typedjob run' can apply to
// its inputs. Every op maps a string input to a string output.
package ops

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/vulntor/typedjob/pkg/job"
	"github.com/vulntor/typedjob/pkg/runner"
)

// Func is a single op.
type Func func(input string) (string, error)

var (
	// ErrUnknownOp is returned by Lookup for a name not in the registry.
	ErrUnknownOp = errors.New("unknown op")
	// ErrOverflow is returned when a numeric result does not fit in an int64.
	ErrOverflow = errors.New("integer overflow")
)

var registry = map[string]Func{
	"increment": increment,
	"square":    square,
	"upper":     func(s string) (string, error) { return strings.ToUpper(s), nil },
	"reverse":   reverse,
	"length":    func(s string) (string, error) { return strconv.Itoa(utf8.RuneCountInString(s)), nil },
}

// Names returns the registered op names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the op registered under name.
func Lookup(name string) (Func, error) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownOp, name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Handler adapts the named op to a runner handler.
func Handler(name string) (runner.Handler[string, string], error) {
	fn, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, _ job.ID, input string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := fn(input)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return out, nil
	}, nil
}

func toInt(s string) (int64, error) {
	n, err := cast.ToInt64E(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

func increment(s string) (string, error) {
	n, err := toInt(s)
	if err != nil {
		return "", err
	}
	if n == math.MaxInt64 {
		return "", ErrOverflow
	}
	return strconv.FormatInt(n+1, 10), nil
}

func square(s string) (string, error) {
	n, err := toInt(s)
	if err != nil {
		return "", err
	}
	if n != 0 && (n == math.MinInt64 || abs(n) > math.MaxInt64/abs(n)) {
		return "", ErrOverflow
	}
	return strconv.FormatInt(n*n, 10), nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func reverse(s string) (string, error) {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r), nil
}
