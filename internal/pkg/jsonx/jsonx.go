// Package jsonx извлекает JSON-объект из произвольного текста ответа языковой модели.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoObject - в тексте нет ни одного корректного JSON-объекта
var ErrNoObject = errors.New("no JSON object found in text")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ExtractObject возвращает первый корректный JSON-объект, встречающийся в тексте.
// Блоки ```json ... ``` просматриваются раньше остального текста.
func ExtractObject(input string) (json.RawMessage, error) {
	input = strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if input == "" {
		return nil, ErrNoObject
	}

	if m := fencePattern.FindStringSubmatch(input); len(m) > 1 {
		if obj, ok := firstObject(m[1]); ok {
			return obj, nil
		}
	}

	if obj, ok := firstObject(input); ok {
		return obj, nil
	}

	return nil, ErrNoObject
}

// DecodeObject извлекает первый объект и декодирует его в target
func DecodeObject(input string, target interface{}) error {
	raw, err := ExtractObject(input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode object: %w", err)
	}
	return nil
}

// firstObject перебирает открывающие скобки слева направо и возвращает
// первый сбалансированный фрагмент, который является валидным JSON
func firstObject(text string) (json.RawMessage, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		candidate := balancedObject(text[i:])
		if candidate == "" {
			continue
		}
		if json.Valid([]byte(candidate)) {
			return compact(candidate), true
		}
	}
	return nil, false
}

// balancedObject возвращает префикс, закрывающий первую фигурную скобку,
// с учётом строк и экранирования
func balancedObject(input string) string {
	depth := 0
	inString := false
	escape := false

	for i := 0; i < len(input); i++ {
		ch := input[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}

	return ""
}

func compact(s string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return json.RawMessage(s)
	}
	return buf.Bytes()
}
