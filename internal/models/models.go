package models

import "strings"

// Timestamp layouts used by the legacy portaria.db schema. Every temporal
// column is TEXT; the application stamps them on write.
const (
	StampLayout = "2006-01-02 15:04:05"
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
)

// AnyAddress is the sentinel bound address accepting logins from anywhere.
const AnyAddress = "livre"

// Permission names one of the per-account operation flags.
type Permission string

const (
	PermInsert Permission = "libinserir"
	PermAlter  Permission = "libalterar"
	PermDelete Permission = "libexcluir"
	PermQuery  Permission = "libconsulta"
)

// Account is a row of the legacy usuarios table. Permission flags are booleans
// in Go and "sim"/"nao" TEXT on disk (see YesNo), so an existing database
// stays readable in place.
type Account struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Password  string `gorm:"column:senha;not null" json:"-"`
	BoundIP   string `gorm:"column:ip;not null;default:livre" json:"ip"`
	IsAdmin   bool   `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CanInsert YesNo  `gorm:"column:libinserir;type:text;not null" json:"libinserir"`
	CanAlter  YesNo  `gorm:"column:libalterar;type:text;not null" json:"libalterar"`
	CanDelete YesNo  `gorm:"column:libexcluir;type:text;not null" json:"libexcluir"`
	CanQuery  YesNo  `gorm:"column:libconsulta;type:text;not null" json:"libconsulta"`
}

func (Account) TableName() string { return "usuarios" }

// Has reports whether the account carries the named permission.
func (a *Account) Has(p Permission) bool {
	switch p {
	case PermInsert:
		return bool(a.CanInsert)
	case PermAlter:
		return bool(a.CanAlter)
	case PermDelete:
		return bool(a.CanDelete)
	case PermQuery:
		return bool(a.CanQuery)
	}
	return false
}

// NormalizeUsername applies the canonical uppercase form used as the
// usuarios primary lookup key.
func NormalizeUsername(u string) string {
	return strings.ToUpper(strings.TrimSpace(u))
}

// LogRecord is a row of the legacy controle table: one visitor/vehicle
// entry-exit event. An empty ExitDate means the visitor is still inside.
type LogRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Destination string `gorm:"column:destino;not null;default:''" json:"destino"`
	VisitType   string `gorm:"column:tipo;not null;default:''" json:"tipo"`
	Company     string `gorm:"column:empresa;not null;default:''" json:"empresa"`
	VisitorName string `gorm:"column:nome;not null;default:''" json:"nome"`
	Document    string `gorm:"column:rg;not null;default:''" json:"rg"`
	Vehicle     string `gorm:"column:veiculo;not null;default:''" json:"veiculo"`
	Plate       string `gorm:"column:placa;not null;default:''" json:"placa"`
	Credential  string `gorm:"column:cr;not null;default:''" json:"cr"`
	EntryDate   string `gorm:"column:data_entrada;not null;default:''" json:"data_entrada"`
	ExitDate    string `gorm:"column:data_saida;not null;default:''" json:"data_saida"`
	EntryTime   string `gorm:"column:hora_entrada;not null;default:''" json:"hora_entrada"`
	ExitTime    string `gorm:"column:hora_saida;not null;default:''" json:"hora_saida"`
	NoteNumber  string `gorm:"column:n_nota;not null;default:''" json:"n_nota"`
	Remarks     string `gorm:"column:obs;not null;default:''" json:"obs"`

	CreatedStamp  string `gorm:"column:periodo;not null;default:''" json:"periodo"`
	CreatedBy     string `gorm:"column:usuario;not null;default:''" json:"usuario"`
	ModifiedStamp string `gorm:"column:periodoalterado;not null;default:''" json:"periodoalterado"`
	ModifiedBy    string `gorm:"column:usuarioalterado;not null;default:''" json:"usuarioalterado"`
	ModifiedDate  string `gorm:"column:data_alterada;not null;default:''" json:"data_alterada"`
}

func (LogRecord) TableName() string { return "controle" }

// Inside reports whether the record still lacks an exit date.
func (r *LogRecord) Inside() bool { return r.ExitDate == "" }
