// Package csvimport lee planillas de artículos exportadas de Excel para el alta masiva.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/application/inventory"
)

// Options formato de la planilla.
type Options struct {
	Comma  rune // separador; 0 = ';'
	Latin1 bool // archivo en ISO-8859-1 (Excel en Windows)
}

// Row fila válida de la planilla. Line es el número de línea del archivo (1 = encabezado).
type Row struct {
	Line  int
	Input inventory.RegisterArticleInput
}

// columnas reconocidas en el encabezado, con sus alias en castellano.
var columns = map[string]string{
	"code":            "code",
	"codigo":          "code",
	"código":          "code",
	"description":     "description",
	"descripcion":     "description",
	"descripción":     "description",
	"unit_measure":    "unit_measure",
	"unidad":          "unit_measure",
	"minimum":         "minimum",
	"minimo":          "minimum",
	"mínimo":          "minimum",
	"initial_balance": "initial_balance",
	"saldo":           "initial_balance",
	"saldo_inicial":   "initial_balance",
	"location":        "location",
	"ubicacion":       "location",
	"ubicación":       "location",
	"qr_value":        "qr_value",
	"qr":              "qr_value",
	"category_id":     "category_id",
	"categoria":       "category_id",
	"categoría":       "category_id",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadArticles interpreta la planilla completa. Devuelve error con el número de línea
// ante la primera fila inválida; no se importa nada parcial.
func ReadArticles(r io.Reader, opt Options) ([]Row, error) {
	if opt.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = opt.Comma
	if cr.Comma == 0 {
		cr.Comma = ';'
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("planilla vacía")
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(record) {
			continue
		}
		in, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rows = append(rows, Row{Line: line, Input: in})
	}
	return rows, nil
}

func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		if col, ok := columns[key]; ok {
			index[col] = i
		}
	}
	if _, ok := index["code"]; !ok {
		return nil, fmt.Errorf("falta la columna código")
	}
	if _, ok := index["description"]; !ok {
		return nil, fmt.Errorf("falta la columna descripción")
	}
	return index, nil
}

func parseRecord(record []string, index map[string]int) (inventory.RegisterArticleInput, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	in := inventory.RegisterArticleInput{
		Code:        field("code"),
		Description: field("description"),
		UnitMeasure: field("unit_measure"),
		Location:    field("location"),
		QRValue:     field("qr_value"),
	}
	if in.Code == "" || in.Description == "" {
		return in, fmt.Errorf("código y descripción son obligatorios")
	}
	var err error
	if in.Minimum, err = optionalQuantity(field("minimum")); err != nil {
		return in, fmt.Errorf("mínimo: %w", err)
	}
	if in.InitialBalance, err = optionalQuantity(field("initial_balance")); err != nil {
		return in, fmt.Errorf("saldo inicial: %w", err)
	}
	if s := field("category_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return in, fmt.Errorf("categoría inválida %q", s)
		}
		in.CategoryID = &id
	}
	return in, nil
}

func optionalQuantity(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return dto.ParseQuantity(s)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
