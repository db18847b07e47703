package store

import "github.com/jhoicas/inventario-store/internal/domain/entity"

// appendHistoryLocked agrega exactamente una entrada de auditoría por
// mutación exitosa, antes del intento de persistencia y dentro de la misma
// transacción lógica: si la escritura falla, la entrada se pierde junto con
// la mutación (política de reemplazo total).
func (s *Store) appendHistoryLocked(event, articleNo string, quantity float64, actor, note string) {
	s.doc.Collections.History = append(s.doc.Collections.History, &entity.HistoryEntry{
		Timestamp: s.now(),
		Event:     event,
		ArticleNo: articleNo,
		Quantity:  quantity,
		Actor:     actor,
		Note:      note,
	})
}
