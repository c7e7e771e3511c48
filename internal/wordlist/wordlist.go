// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

// EmbeddedPath is reported as the word list path when the built-in list is used.
const EmbeddedPath = "embedded:en"

//go:embed data/en.txt
var embeddedEnglish string

// LoadWords reads one word per line from the provided file path, keeping only
// words accepted by the language filter.
func LoadWords(path, lang string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return parseWords(file, FilterForLang(lang))
}

// Embedded returns the built-in English word list.
func Embedded() []string {
	words, err := parseWords(strings.NewReader(embeddedEnglish), FilterForLang("en"))
	if err != nil {
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return words
}

// Resolve loads the word list for lang from path. A missing English list
// falls back to the embedded one; the returned path names the source used.
func Resolve(path, lang string) ([]string, string, error) {
	words, err := LoadWords(path, lang)
	if err == nil {
		return words, path, nil
	}
	if os.IsNotExist(err) && strings.EqualFold(lang, "en") {
		return Embedded(), EmbeddedPath, nil
	}
	return nil, path, err
}

func parseWords(r io.Reader, keep FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
