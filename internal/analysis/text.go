// Package analysis scores, summarizes and describes article text.
package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern    = regexp.MustCompile(`https?\S+|www\S+`)
	symbolPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?:;]`)
)

// Preprocess lowercases text, removes URLs and symbols other than basic
// punctuation, and collapses whitespace.
func Preprocess(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = symbolPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Truncate keeps the first n words of text. It reports whether anything was
// dropped. Whitespace inside the kept prefix is preserved.
func Truncate(text string, n int) (string, bool) {
	if n <= 0 {
		return text, false
	}
	count := 0
	inWord := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if !space && !inWord {
			if count == n {
				return strings.TrimRightFunc(text[:i], unicode.IsSpace), true
			}
			count++
		}
		inWord = !space
	}
	return text, false
}

// chunkWords splits text into consecutive groups of at most size words.
func chunkWords(text string, size int) []string {
	words := strings.Fields(text)
	if size <= 0 || len(words) <= size {
		if len(words) == 0 {
			return nil
		}
		return []string{strings.Join(words, " ")}
	}
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := min(i+size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
