// Package draft persists the in-progress values of one form so they survive
// reloads. A Store is scoped to a single storage key on a Backend and holds
// an independent JSON copy of the form's field map: it is overwritten
// wholesale on every save, never patched, and cleared after an accepted
// submit. Corrupt stored data reads back as an empty snapshot.
package draft
