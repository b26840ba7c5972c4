package models

// Student is a registered learner identified by a system-assigned id and the
// NIM (nomor induk mahasiswa) business key.
type Student struct {
	ID   int64  `db:"id" json:"id"`
	NIM  string `db:"nim" json:"nim"`
	Name string `db:"name" json:"name"`
}
