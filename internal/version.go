package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
	"unicode"
)

// Version is the application version.
var Version = "0.1.0"

// ShortID returns a short unique identifier based on the current time.
// Used to name saved story illustrations.
func ShortID() string {
	now := time.Now()
	hash := md5.Sum([]byte(now.String()))
	return fmt.Sprintf("%d_%s", now.UnixMilli(), hex.EncodeToString(hash[:])[:8])
}

// SanitizeFilename creates a safe filename from a string. Letters
// (including accented French ones), digits, dashes and underscores are
// kept; everything else becomes an underscore.
func SanitizeFilename(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
