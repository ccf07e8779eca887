package cart

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Encode — JSON-массив позиций, как его хранил браузер в localStorage["cart"]
func Encode(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	return b, errors.Wrap(err, "encode cart")
}

// Decode разбирает сохранённую корзину. Позиции с количеством < 1
// и повторы id отбрасываются, порядок остальных сохраняется.
func Decode(raw []byte) ([]Line, error) {
	var in []storedLine
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}

	out := make([]Line, 0, len(in))
	seen := make(map[int]bool, len(in))
	for _, sl := range in {
		l := sl.Line
		if l.Title == "" {
			l.Title = sl.Name
		}
		if l.Quantity < 1 || seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	return out, nil
}

// storedLine — позиция в том виде, в каком её мог записать браузер:
// меню писало name вместо title.
type storedLine struct {
	Line
	Name string `json:"name"`
}
