// seed_catalog genera un script SQL para poblar lab_services a partir de una hoja de
// cálculo (.xlsx) o un CSV exportado de la lista de precios del laboratorio.
//
// Uso: go run ./cmd/seed_catalog [catalogo.xlsx|catalogo.csv] [salida.sql]
// La primera fila es la cabecera; se usan las columnas "id" (opcional) y "name"/"service".
// Los CSV en ISO-8859-1 se detectan y convierten a UTF-8.
// Por defecto escribe catalog_seed.sql en el directorio actual.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/pathassist/lab-billing/internal/application/billing"
)

type service struct {
	id   string
	name string
}

func main() {
	inPath := "catalogo.xlsx"
	if len(os.Args) > 1 {
		inPath = os.Args[1]
	}
	outPath := "catalog_seed.sql"
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	rows, err := readRows(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer %s: %v\n", inPath, err)
		os.Exit(1)
	}
	services, err := parseServices(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar catálogo: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear salida: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, services); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d servicios escritos en %s\n", len(services), outPath)
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return f.GetRows(f.GetSheetName(0))
	case ".csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return readCSV(data)
	}
	return nil, fmt.Errorf("extensión no soportada %q (xlsx|csv)", filepath.Ext(path))
}

// readCSV decodifica como ISO-8859-1 si el contenido no es UTF-8 válido.
func readCSV(data []byte) ([][]string, error) {
	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// parseServices ubica las columnas por cabecera y descarta filas vacías y ids repetidos.
func parseServices(rows [][]string) ([]service, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("archivo vacío")
	}
	idCol, nameCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id", "code":
			idCol = i
		case "name", "service", "servicio", "nombre":
			nameCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("falta la columna name/service en la cabecera")
	}

	seen := make(map[string]bool)
	var out []service
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cellVal(row, nameCol))
		if name == "" {
			continue
		}
		id := strings.TrimSpace(cellVal(row, idCol))
		if id == "" {
			id = billing.ServiceSlug(name)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, service{id: id, name: name})
	}
	return out, nil
}

// writeSQL agrega los servicios a continuación de los existentes, sin pisar ids ya cargados.
func writeSQL(w io.Writer, services []service) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de servicios generado por cmd/seed_catalog.\n")
	b.WriteString("BEGIN;\n")
	for _, s := range services {
		fmt.Fprintf(&b,
			"INSERT INTO lab_services (id, name, position) "+
				"SELECT '%s', '%s', COALESCE(MAX(position), 0) + 1 FROM lab_services "+
				"ON CONFLICT (id) DO NOTHING;\n",
			escapeSQL(s.id), escapeSQL(s.name))
	}
	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
