package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	NanoidSize     = 21
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NanoID generates a row id.
func NanoID() string {
	return gonanoid.MustGenerate(nanoidAlphabet, NanoidSize)
}

// ObjectKey builds a unique storage key under prefix, like
// donations/1718000000000-<uuid>.jpg.
func ObjectKey(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s/%d-%s%s", prefix, now.UnixMilli(), uuid.NewString(), ext)
}
