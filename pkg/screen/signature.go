package screen

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Signature — подпись синхронизации: хэш от сериализованных требований
// вакансии и текущих оценок. Клиент запоминает её при загрузке и присылает
// с правкой; несовпадение означает, что правка собрана поверх устаревших
// данных.
func Signature(minReqs, prefReqs []string, minEvals, prefEvals []Evaluation) string {
	payload := struct {
		MinReqs   []string     `json:"minReqs"`
		PrefReqs  []string     `json:"prefReqs"`
		MinEvals  []Evaluation `json:"minEvals"`
		PrefEvals []Evaluation `json:"prefEvals"`
	}{minReqs, prefReqs, minEvals, prefEvals}
	b, _ := json.Marshal(payload)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
