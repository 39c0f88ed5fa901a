package chat

// Keyboard accumulates buttons and lays them out in fixed-width rows.
type Keyboard struct {
	buttons []Button
	perRow  int
}

func NewKeyboard() *Keyboard {
	return &Keyboard{perRow: 1}
}

func (k *Keyboard) Button(label, token string) {
	k.buttons = append(k.buttons, Button{Label: label, Token: token})
}

// Adjust sets how many buttons go in each row. Only 1 and 2 column layouts
// are rendered by the transport.
func (k *Keyboard) Adjust(perRow int) {
	if perRow < 1 {
		perRow = 1
	}
	if perRow > 2 {
		perRow = 2
	}
	k.perRow = perRow
}

func (k *Keyboard) Rows() [][]Button {
	if len(k.buttons) == 0 {
		return nil
	}
	rows := make([][]Button, 0, (len(k.buttons)+k.perRow-1)/k.perRow)
	for i := 0; i < len(k.buttons); i += k.perRow {
		end := i + k.perRow
		if end > len(k.buttons) {
			end = len(k.buttons)
		}
		rows = append(rows, k.buttons[i:end])
	}
	return rows
}
