package advisory

import (
	"strings"

	"github.com/goark/go-cvss/v3/metric"
)

// CvssVectorToScore returns the lower-cased severity and base score of a CVSS
// v3 vector. Vectors that cannot be decoded give an empty severity and 0.
func CvssVectorToScore(vector string) (string, float64) {
	bm, err := metric.NewBase().Decode(vector)
	if err != nil {
		return "", 0.0
	}
	return strings.ToLower(bm.Severity().String()), bm.Score()
}
