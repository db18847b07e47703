package repository

// SlotStore puerto de persistencia: una ranura nombrada que guarda el
// documento completo como un único blob de texto serializado. El medio puede
// rechazar escrituras en cualquier momento (cuota, permisos, deshabilitado)
// y las lecturas pueden devolver texto malformado; ambos casos los maneja el
// almacén, no el adaptador.
type SlotStore interface {
	// Get devuelve el payload y si la ranura existe.
	Get(slot string) (payload string, ok bool, err error)
	// Set escribe el payload completo; un error aquí dispara el bloqueo
	// total del documento en el almacén.
	Set(slot, payload string) error
	// Remove elimina la ranura.
	Remove(slot string) error
}
