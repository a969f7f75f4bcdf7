package dataset

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

type xlsxWorkbook struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

type xlsxRels struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xlsxSST struct {
	Items []struct {
		T    string `xml:"t"`
		Runs []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

type xlsxSheet struct {
	Rows []struct {
		Cells []struct {
			Ref    string `xml:"r,attr"`
			Type   string `xml:"t,attr"`
			V      string `xml:"v"`
			Inline string `xml:"is>t"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

// readXLSX returns the header and data rows of one worksheet.
// sheetIndex is 1-based and only consulted when sheetName is empty.
func readXLSX(file, sheetName string, sheetIndex int) ([]string, [][]string, error) {
	zr, err := zip.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	var wb xlsxWorkbook
	if err := decodeZipXML(&zr.Reader, "xl/workbook.xml", &wb); err != nil {
		return nil, nil, err
	}
	var rels xlsxRels
	if err := decodeZipXML(&zr.Reader, "xl/_rels/workbook.xml.rels", &rels); err != nil {
		return nil, nil, err
	}
	targets := make(map[string]string, len(rels.Items))
	for _, r := range rels.Items {
		targets[r.ID] = sheetPath(r.Target)
	}

	var target string
	if sheetName != "" {
		names := make([]string, 0, len(wb.Sheets))
		for _, s := range wb.Sheets {
			names = append(names, s.Name)
			if strings.EqualFold(s.Name, sheetName) {
				target = targets[s.RID]
			}
		}
		if target == "" {
			return nil, nil, fmt.Errorf("sheet %q not found; available sheets: %s", sheetName, strings.Join(names, ", "))
		}
	} else {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		for _, s := range wb.Sheets {
			if s.SheetID == idx {
				target = targets[s.RID]
				break
			}
		}
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", idx)
		}
	}

	var shared []string
	if findZipFile(&zr.Reader, "xl/sharedStrings.xml") != nil {
		var sst xlsxSST
		if err := decodeZipXML(&zr.Reader, "xl/sharedStrings.xml", &sst); err != nil {
			return nil, nil, err
		}
		for _, si := range sst.Items {
			var b strings.Builder
			b.WriteString(si.T)
			for _, r := range si.Runs {
				b.WriteString(r.T)
			}
			shared = append(shared, b.String())
		}
	}

	var sheet xlsxSheet
	if err := decodeZipXML(&zr.Reader, target, &sheet); err != nil {
		return nil, nil, err
	}
	var records [][]string
	for _, row := range sheet.Rows {
		var rec []string
		for pos, c := range row.Cells {
			col := pos
			if c.Ref != "" {
				if i := columnIndex(c.Ref); i >= 0 {
					col = i
				}
			}
			for len(rec) <= col {
				rec = append(rec, "")
			}
			switch c.Type {
			case "s":
				if i, err := strconv.Atoi(strings.TrimSpace(c.V)); err == nil && i >= 0 && i < len(shared) {
					rec[col] = shared[i]
				}
			case "inlineStr":
				rec[col] = c.Inline
			default:
				rec[col] = c.V
			}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet %s is empty", target)
	}
	return records[0], records[1:], nil
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func decodeZipXML(zr *zip.Reader, name string, v any) error {
	f := findZipFile(zr, name)
	if f == nil {
		return fmt.Errorf("xlsx: missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("xlsx: open %s: %w", name, err)
	}
	defer rc.Close()
	if err := xml.NewDecoder(io.LimitReader(rc, 256<<20)).Decode(v); err != nil {
		return fmt.Errorf("xlsx: decode %s: %w", name, err)
	}
	return nil
}

// sheetPath maps a relationship Target to its path inside the archive.
// Targets may be absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func sheetPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", target)
}

// columnIndex converts a cell reference like "C12" to a 0-based column index.
func columnIndex(ref string) int {
	idx := 0
	for _, ch := range strings.ToUpper(ref) {
		if ch < 'A' || ch > 'Z' {
			break
		}
		idx = idx*26 + int(ch-'A'+1)
	}
	return idx - 1
}
