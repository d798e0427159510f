package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pricepanel-backend/internal/products"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/metrics"
)

type noTemplates struct{}

func (noTemplates) Exists(context.Context, uuid.UUID) (bool, error) { return false, nil }

func setup(t *testing.T) (*gorm.DB, Service, *bytes.Buffer) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ing_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	catalog, err := products.NewService(products.NewRepository(conn), noTemplates{})
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: logs})
	svc, err := NewService(catalog, logg, metrics.NewPanelMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	return conn, svc, logs
}

func countProducts(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&n).Error)
	return n
}

const sampleCSV = "Código;Descrição;Preço;Família\n" +
	"1001;Arroz 5kg;R$ 1.234,56;mercearia\n" +
	"1002;Feijão 1kg;38,99;Mercearia\n" +
	"1003;Sem preço;;MERCEARIA\n" +
	";Sem código;10,00;MERCEARIA\n" +
	"1004;Estragado;abc;MERCEARIA\n" +
	"1005;Negativo;-1,00;MERCEARIA\n" +
	";;;\n" +
	"1006;Leite;4,99; laticinios \n"

func TestIngestCSVNormalizesAndSkipsBadRows(t *testing.T) {
	ctx := context.Background()
	conn, svc, logs := setup(t)

	res, err := svc.Ingest(ctx, strings.NewReader(sampleCSV), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 4, res.Skipped)
	require.Len(t, res.Skips, 4)
	assert.Equal(t, SkippedRow{Row: 4, Code: "1003", Reason: "empty price"}, res.Skips[0])
	assert.Equal(t, 5, res.Skips[1].Row)
	assert.Equal(t, "empty code", res.Skips[1].Reason)
	assert.Equal(t, "invalid price", res.Skips[2].Reason)
	assert.Equal(t, "negative price", res.Skips[3].Reason)

	repo := products.NewRepository(conn)
	arroz, err := repo.FindByCode(ctx, "1001")
	require.NoError(t, err)
	assert.True(t, arroz.Price.Equal(decimal.RequireFromString("1234.56")), "got %s", arroz.Price)
	assert.Equal(t, "MERCEARIA", arroz.Family.Name)
	assert.True(t, arroz.OnPanel)

	feijao, err := repo.FindByCode(ctx, "1002")
	require.NoError(t, err)
	assert.True(t, feijao.Price.Equal(decimal.RequireFromString("38.99")))

	leite, err := repo.FindByCode(ctx, "1006")
	require.NoError(t, err)
	assert.Equal(t, "LATICINIOS", leite.Family.Name)

	assert.Contains(t, logs.String(), "ingest.row_skipped")
	assert.Contains(t, logs.String(), "ingest.completed")
}

func TestIngestIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, svc, _ := setup(t)

	first, err := svc.Ingest(ctx, strings.NewReader(sampleCSV), FormatCSV)
	require.NoError(t, err)
	before := countProducts(t, conn)

	second, err := svc.Ingest(ctx, strings.NewReader(sampleCSV), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, first.Created, second.Updated)
	assert.Equal(t, first.Skipped, second.Skipped)
	assert.Equal(t, before, countProducts(t, conn))

	var families int64
	require.NoError(t, conn.Model(&models.ProductFamily{}).Count(&families).Error)
	assert.EqualValues(t, 2, families)
}

func TestIngestSkipsValuesWiderThanColumns(t *testing.T) {
	ctx := context.Background()
	conn, svc, _ := setup(t)

	input := "CODIGO;DESCRICAO;PRECO;FAMILIA\n" +
		"2001;Açúcar 1kg;5,49;MERCEARIA\n" +
		"2002;" + strings.Repeat("x", 250) + ";1,00;MERCEARIA\n" +
		strings.Repeat("9", 51) + ";Código longo;1,00;MERCEARIA\n" +
		"2003;Caro demais;100000000,00;MERCEARIA\n" +
		"2004;Sal 1kg;2,19;MERCEARIA\n"

	res, err := svc.Ingest(ctx, strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Skips, 3)
	assert.Equal(t, SkippedRow{Row: 3, Code: "2002", Reason: "description exceeds 200 characters"}, res.Skips[0])
	assert.Equal(t, "code exceeds 50 characters", res.Skips[1].Reason)
	assert.Equal(t, SkippedRow{Row: 5, Code: "2003", Reason: "price exceeds 99999999.99"}, res.Skips[2])
	assert.EqualValues(t, 2, countProducts(t, conn))
}

// recordingCatalog fails the codes listed in fail and records the rest.
type recordingCatalog struct {
	fail    map[string]error
	written []string
}

func (c *recordingCatalog) UpsertByCode(_ context.Context, row products.CatalogRow) (products.UpsertOutcome, error) {
	if err := c.fail[row.Code]; err != nil {
		return 0, err
	}
	c.written = append(c.written, row.Code)
	return products.UpsertCreated, nil
}

func TestIngestTreatsColumnOverflowAsRowSkip(t *testing.T) {
	catalog := &recordingCatalog{fail: map[string]error{
		"2": &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(200)"},
	}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	svc, err := NewService(catalog, logg, nil)
	require.NoError(t, err)

	input := "CODIGO;DESCRICAO;PRECO;FAMILIA\n1;A;1,00;X\n2;B;1,00;X\n3;C;1,00;X\n"
	res, err := svc.Ingest(context.Background(), strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, catalog.written)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Skips, 1)
	assert.Equal(t, 3, res.Skips[0].Row)

	catalog.fail["3"] = fmt.Errorf("connection reset")
	_, err = svc.Ingest(context.Background(), strings.NewReader(input), FormatCSV)
	require.Error(t, err, "store outages still abort the import")
}

func TestIngestMissingHeaderWritesNothing(t *testing.T) {
	ctx := context.Background()
	conn, svc, _ := setup(t)

	input := "CODIGO,DESCRICAO,PRECO\n1,Arroz,10.00\n"
	_, err := svc.Ingest(ctx, strings.NewReader(input), FormatCSV)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, appErr.Message(), "FAMILIA")
	assert.Contains(t, appErr.Message(), "CODIGO, DESCRICAO, PRECO")

	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"FAMILIA"}, details["missing"])
	assert.Equal(t, []string{"CODIGO", "DESCRICAO", "PRECO"}, details["found"])

	assert.Zero(t, countProducts(t, conn))
}

func TestIngestEmptyFile(t *testing.T) {
	_, svc, _ := setup(t)
	_, err := svc.Ingest(context.Background(), strings.NewReader(""), FormatCSV)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestIngestXLSXUsesNumericCells(t *testing.T) {
	ctx := context.Background()
	conn, svc, _ := setup(t)

	rows := [][]any{{"CÓDIGO", "DESCRIÇÃO", "PREÇO", "FAMÍLIA"}}
	for i := 1; i <= 10; i++ {
		rows = append(rows, []any{fmt.Sprintf("P%02d", i), fmt.Sprintf("Produto %d", i), 1234.56, "hortifruti"})
	}
	rows = append(rows, []any{"BAD", "Quebrado", "sem valor", "hortifruti"})
	rows = append(rows, []any{"TXT", "Texto", "R$ 38,99", "hortifruti"})

	res, err := svc.Ingest(ctx, buildWorkbook(t, rows), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, 11, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 12, res.Skips[0].Row)

	repo := products.NewRepository(conn)
	p, err := repo.FindByCode(ctx, "P01")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1234.56")), "numeric cell kept, got %s", p.Price)
	assert.Equal(t, "HORTIFRUTI", p.Family.Name)

	txt, err := repo.FindByCode(ctx, "TXT")
	require.NoError(t, err)
	assert.True(t, txt.Price.Equal(decimal.RequireFromString("38.99")))
}

func TestIngestRejectsUnreadableXLSX(t *testing.T) {
	_, svc, _ := setup(t)
	_, err := svc.Ingest(context.Background(), strings.NewReader("not a zip"), FormatXLSX)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
