package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bdougie/pagecap/internal/models"
)

var ErrInvalidTrimFormat = errors.New("trim must be 'top,bottom,left,right' with non-negative integers (e.g. 60,40,10,10)")

// ParseTrim parses "top,bottom,left,right"
func ParseTrim(s string) (models.TrimSpec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.TrimSpec{}, fmt.Errorf("%w: got %q", ErrInvalidTrimFormat, s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return models.TrimSpec{}, fmt.Errorf("%w: got %q", ErrInvalidTrimFormat, s)
		}
		v[i] = n
	}

	trim := models.TrimSpec{Top: v[0], Bottom: v[1], Left: v[2], Right: v[3]}
	if err := ValidateTrim(trim); err != nil {
		return models.TrimSpec{}, err
	}
	return trim, nil
}

// ValidateTrim rejects negative margins
func ValidateTrim(t models.TrimSpec) error {
	if t.Top < 0 || t.Bottom < 0 || t.Left < 0 || t.Right < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTrimFormat, t)
	}
	return nil
}
