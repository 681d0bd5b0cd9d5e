package parser

import (
	"fmt"

	"github.com/go-faster/jx"
)

// CountMessages быстро извлекает название чата и количество сообщений,
// не декодируя сами сообщения: элементы массива messages только пропускаются.
func CountMessages(data []byte) (title string, count int, err error) {
	d := jx.DecodeBytes(data)
	err = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "title":
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			title = s
			return nil
		case "messages":
			if d.Next() != jx.Array {
				return d.Skip()
			}
			return d.Arr(func(d *jx.Decoder) error {
				count++
				return d.Skip()
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to scan export: %w", err)
	}
	return title, count, nil
}
