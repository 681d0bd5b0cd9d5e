package stats

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"messenger-chat-stats/internal/domain"
)

// DefaultTopWords - размер списка самых частых слов по умолчанию.
const DefaultTopWords = 20

// DefaultMinWordLength - минимальная длина слова в рунах.
const DefaultMinWordLength = 3

// WordOptions задает параметры частотного анализа.
type WordOptions struct {
	TopN      int
	MinLength int
	StopWords StopWords
}

// Tokenize приводит текст к нижнему регистру и разбивает его на границах
// пробелов и пунктуации. Токены, состоящие только из пунктуации, не возвращаются.
func Tokenize(text string) []string {
	var tokens []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
		}
		sb.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// WordFrequencies возвращает не более TopN самых частых слов по убыванию частоты,
// при равенстве - по алфавиту. Учитываются только слова из букв не короче MinLength,
// не входящие в стоп-список. Сообщения без текста не участвуют.
func WordFrequencies(messages []domain.Message, opts WordOptions) ([]domain.WordCount, error) {
	if err := requireMessages("word frequencies", messages); err != nil {
		return nil, err
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopWords
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinWordLength
	}
	if opts.StopWords == nil {
		opts.StopWords = DefaultStopWords()
	}

	freq := make(map[string]int)
	for _, msg := range messages {
		if msg.Body == "" {
			continue
		}
		for _, token := range Tokenize(msg.Body) {
			if !isWord(token) || utf8.RuneCountInString(token) < opts.MinLength || opts.StopWords.Contains(token) {
				continue
			}
			freq[token]++
		}
	}

	items := make([]domain.WordCount, 0, len(freq))
	for w, c := range freq {
		items = append(items, domain.WordCount{Word: w, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Word < items[j].Word
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > opts.TopN {
		items = items[:opts.TopN]
	}
	return items, nil
}

// isWord отбрасывает токены с цифрами.
func isWord(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}
