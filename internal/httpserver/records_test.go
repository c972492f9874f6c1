package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portaria/internal/models"
)

func fullAccess(username, password string) accountSpec {
	return accountSpec{Username: username, Password: password, Insert: true, Alter: true, Delete: true, Query: true}
}

type searchResult struct {
	Registros []models.LogRecord `json:"registros"`
	Total     int                `json:"total"`
}

func (e *env) search(t *testing.T, cookie *http.Cookie, query string) searchResult {
	t.Helper()
	rec := e.get(t, "/consultar"+query, cookie)
	require.Equal(t, http.StatusOK, rec.Code, "search body: %s", rec.Body.String())
	var res searchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestSaveRecordStampsAudit(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	rec := e.postForm(t, "/salvar_registro", url.Values{
		"empresa":      {"ACME"},
		"nome":         {"J. Silva"},
		"placa":        {"ABC1234"},
		"data_entrada": {"2024-05-01"},
		"hora_entrada": {"08:30"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved models.LogRecord
	require.NoError(t, e.db.First(&saved, "empresa = ?", "ACME").Error)
	assert.Equal(t, "J. Silva", saved.VisitorName)
	assert.Equal(t, "EDER", saved.CreatedBy)
	assert.NotEmpty(t, saved.CreatedStamp)
	assert.Empty(t, saved.ExitDate)
	assert.Empty(t, saved.ExitTime)
	assert.Empty(t, saved.ModifiedBy)
	assert.True(t, saved.Inside())
}

func TestSaveRecordRequiresPermission(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, accountSpec{Username: "EDER", Password: "12345", Query: true})
	cookie := e.login(t, "EDER", "12345")

	rec := e.postForm(t, "/salvar_registro", url.Values{"empresa": {"ACME"}}, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusForbidden, e.get(t, "/novo_registro", cookie).Code)
}

func TestPermissionRevocationIsImmediate(t *testing.T) {
	e := newEnv(t)
	acct := e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	require.Equal(t, http.StatusNoContent, e.get(t, "/novo_registro", cookie).Code)

	require.NoError(t, e.db.Model(&acct).Update("libinserir", models.YesNo(false)).Error)
	assert.Equal(t, http.StatusForbidden, e.get(t, "/novo_registro", cookie).Code)
}

func TestSearchLifecycleExample(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	rec := e.postForm(t, "/salvar_registro", url.Values{
		"empresa":      {"ACME"},
		"nome":         {"J. Silva"},
		"placa":        {"ABC1234"},
		"data_entrada": {"2024-05-01"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	e.insertRecord(t, models.LogRecord{Company: "Outra", VisitorName: "M. Souza", ExitDate: "2024-04-30", ExitTime: "17:00"})

	res := e.search(t, cookie, "?empresa=ACME&status=dentro")
	require.Len(t, res.Registros, 1)
	id := res.Registros[0].ID
	assert.Equal(t, "J. Silva", res.Registros[0].VisitorName)

	out := e.postForm(t, fmt.Sprintf("/registrar_saida/%d", id), url.Values{}, cookie)
	require.Equal(t, http.StatusOK, out.Code)

	assert.Len(t, e.search(t, cookie, "?empresa=ACME&status=dentro").Registros, 0)
	assert.Len(t, e.search(t, cookie, "?empresa=ACME&status=saiu").Registros, 1)
}

func TestSearchSubstringFilters(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	e.insertRecord(t, models.LogRecord{Company: "Transportes ACME Ltda", VisitorName: "Jose da Silva", Plate: "ABC1D23"})
	e.insertRecord(t, models.LogRecord{Company: "Beta", VisitorName: "Maria", Plate: "XYZ9Z99"})

	assert.Len(t, e.search(t, cookie, "?empresa=ACME").Registros, 1)
	assert.Len(t, e.search(t, cookie, "?nome=Silva").Registros, 1)
	assert.Len(t, e.search(t, cookie, "?placa=BC1").Registros, 1)
	assert.Len(t, e.search(t, cookie, "?empresa=ACME&nome=Maria").Registros, 0)
	assert.Len(t, e.search(t, cookie, "").Registros, 2)
}

func TestSearchDateBounds(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	e.insertRecord(t, models.LogRecord{Company: "A", EntryDate: "2024-05-01"})
	e.insertRecord(t, models.LogRecord{Company: "B", EntryDate: "2024-05-10"})
	e.insertRecord(t, models.LogRecord{Company: "C", EntryDate: "2024-05-20"})

	assert.Len(t, e.search(t, cookie, "?data_inicio=2024-05-05").Registros, 2)
	assert.Len(t, e.search(t, cookie, "?data_fim=2024-05-10").Registros, 2)
	assert.Len(t, e.search(t, cookie, "?data_inicio=2024-05-05&data_fim=2024-05-15").Registros, 1)
}

func TestSearchUnknownStatusIgnored(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	e.insertRecord(t, models.LogRecord{Company: "A"})
	e.insertRecord(t, models.LogRecord{Company: "B", ExitDate: "2024-05-01"})

	assert.Len(t, e.search(t, cookie, "?status=qualquer").Registros, 2)
}

func TestSearchCapAndOrder(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	for i := 0; i < 105; i++ {
		e.insertRecord(t, models.LogRecord{Company: fmt.Sprintf("empresa-%d", i)})
	}
	res := e.search(t, cookie, "")
	require.Len(t, res.Registros, 100)
	// Most recent first, by identity order.
	assert.Greater(t, res.Registros[0].ID, res.Registros[99].ID)
	assert.Equal(t, "empresa-104", res.Registros[0].Company)
}

func TestSearchRequiresPermission(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, accountSpec{Username: "EDER", Password: "12345", Insert: true})
	cookie := e.login(t, "EDER", "12345")
	assert.Equal(t, http.StatusForbidden, e.get(t, "/consultar", cookie).Code)
}

func TestEditRecord(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")
	saved := e.insertRecord(t, models.LogRecord{Company: "ACME", VisitorName: "J. Silva"})

	rec := e.get(t, fmt.Sprintf("/editar_registro/%d", saved.ID), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.LogRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "ACME", got.Company)

	assert.Equal(t, http.StatusNotFound, e.get(t, "/editar_registro/9999", cookie).Code)
	assert.Equal(t, http.StatusNotFound, e.get(t, "/editar_registro/abc", cookie).Code)
}

func TestUpdateRecordRewritesAndStamps(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")
	saved := e.insertRecord(t, models.LogRecord{Company: "ACME", VisitorName: "J. Silva", Remarks: "antiga"})

	rec := e.postForm(t, fmt.Sprintf("/atualizar_registro/%d", saved.ID), url.Values{
		"empresa":      {"ACME SA"},
		"nome":         {"J. Silva"},
		"data_entrada": {"2024-05-01"},
		"data_saida":   {"2024-05-02"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.LogRecord
	require.NoError(t, e.db.First(&got, saved.ID).Error)
	assert.Equal(t, "ACME SA", got.Company)
	// Full rewrite: omitted fields become empty.
	assert.Empty(t, got.Remarks)
	assert.Equal(t, "EDER", got.ModifiedBy)
	assert.NotEmpty(t, got.ModifiedStamp)
	assert.NotEmpty(t, got.ModifiedDate)
}

func TestUpdateRecordUnknownID(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")
	rec := e.postForm(t, "/atualizar_registro/424242", url.Values{"empresa": {"X"}}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterExitOverwrites(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")
	saved := e.insertRecord(t, models.LogRecord{Company: "ACME", ExitDate: "2020-01-01", ExitTime: "00:01"})

	rec := e.postForm(t, fmt.Sprintf("/registrar_saida/%d", saved.ID), url.Values{}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.LogRecord
	require.NoError(t, e.db.First(&got, saved.ID).Error)
	assert.Equal(t, time.Now().Format(models.DateLayout), got.ExitDate)
	assert.NotEqual(t, "00:01", got.ExitTime)
	assert.Equal(t, "EDER", got.ModifiedBy)
}

func TestRegisterExitUnknownID(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")
	assert.Equal(t, http.StatusNotFound, e.postForm(t, "/registrar_saida/9999", url.Values{}, cookie).Code)
}

func TestDeleteRecord(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")
	saved := e.insertRecord(t, models.LogRecord{Company: "ACME"})

	rec := e.postForm(t, fmt.Sprintf("/excluir_registro/%d", saved.ID), url.Values{}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	e.db.Model(&models.LogRecord{}).Count(&count)
	assert.EqualValues(t, 0, count)

	assert.Equal(t, http.StatusNotFound, e.postForm(t, fmt.Sprintf("/excluir_registro/%d", saved.ID), url.Values{}, cookie).Code)
}

func TestDeleteRecordRequiresPermission(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, accountSpec{Username: "EDER", Password: "12345", Insert: true, Alter: true, Query: true})
	cookie := e.login(t, "EDER", "12345")
	saved := e.insertRecord(t, models.LogRecord{Company: "ACME"})
	assert.Equal(t, http.StatusForbidden, e.postForm(t, fmt.Sprintf("/excluir_registro/%d", saved.ID), url.Values{}, cookie).Code)
}

func TestDashboard(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, fullAccess("EDER", "12345"))
	cookie := e.login(t, "EDER", "12345")

	today := time.Now().Format(models.DateLayout)
	e.insertRecord(t, models.LogRecord{Company: "A", EntryDate: today})
	e.insertRecord(t, models.LogRecord{Company: "B", EntryDate: today, ExitDate: today})
	e.insertRecord(t, models.LogRecord{Company: "C", EntryDate: "2020-01-01"})

	rec := e.get(t, "/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Hoje    int64              `json:"registros_hoje"`
		Dentro  int64              `json:"veiculos_dentro"`
		Ultimos []models.LogRecord `json:"ultimos_registros"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Hoje)
	assert.EqualValues(t, 2, body.Dentro)
	require.Len(t, body.Ultimos, 3)
	assert.Equal(t, "C", body.Ultimos[0].Company)
}
