// Package intent классифицирует текст сообщения: данные рождения или вопрос.
package intent

import (
	"strings"
	"unicode"

	"github.com/starweaverbot/starweaver/internal/models"
)

// Intent результат классификации. Заполнено ровно одно из полей:
// BirthData для сообщения с данными рождения, иначе Question.
// Части данных рождения берутся дословно, без семантической проверки даты.
type Intent struct {
	BirthData *models.BirthData
	Question  string
}

// IsBirthData сообщает, распознано ли сообщение как данные рождения.
func (i Intent) IsBirthData() bool {
	return i.BirthData != nil
}

// Classify распознаёт сообщение как данные рождения, если в нём не меньше
// трёх сегментов, есть хотя бы одна цифра, первый сегмент содержит '-'
// и второй содержит ':'. Всё остальное — вопрос; пустой текст даёт
// вопрос с пустой строкой.
func Classify(text string) Intent {
	trimmed := strings.TrimSpace(text)

	if len(strings.Fields(trimmed)) >= 3 && strings.ContainsFunc(trimmed, unicode.IsDigit) {
		parts := strings.SplitN(trimmed, " ", 3)
		if len(parts) == 3 &&
			strings.Contains(parts[0], "-") &&
			strings.Contains(parts[1], ":") {
			return Intent{BirthData: &models.BirthData{
				BirthDate:  parts[0],
				BirthTime:  parts[1],
				BirthPlace: parts[2],
			}}
		}
	}

	return Intent{Question: trimmed}
}
