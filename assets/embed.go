// Package assets embeds the default word lists shipped with the binary.
package assets

import (
	"embed"
	"io"
)

//go:embed words.txt past_used_words.txt
var FS embed.FS

func open(name string) (io.ReadCloser, error) {
	return FS.Open(name)
}

// Words opens the default dictionary, one word per line.
func Words() (io.ReadCloser, error) {
	return open("words.txt")
}

// PastWords opens the default list of previously used answers, separated by '|'.
func PastWords() (io.ReadCloser, error) {
	return open("past_used_words.txt")
}
