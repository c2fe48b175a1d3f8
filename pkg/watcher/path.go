package watcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/pkg/observer"
)

var invalidPathChar = regexp.MustCompile(`[^\p{L}\p{N}_.$]`)

// Getter reads a value below root.
type Getter func(root any) any

// ParsePath compiles a dot-delimited path such as "items.0.title" into a
// Getter. Numeric segments index arrays. A segment that cannot be followed
// yields nil.
func ParsePath(path string) (Getter, error) {
	if path == "" || invalidPathChar.MatchString(path) {
		return nil, errors.New(errors.CodeInvalidWatchPath).WithDetailf("%q", path)
	}

	segments := strings.Split(path, ".")
	return func(root any) any {
		v := root
		for _, seg := range segments {
			switch c := v.(type) {
			case *observer.Object:
				v = c.Get(seg)
			case *observer.Array:
				i, err := strconv.Atoi(seg)
				if err != nil || i < 0 || i >= c.Len() {
					return nil
				}
				v = c.At(i)
			default:
				return nil
			}
		}
		return v
	}, nil
}
