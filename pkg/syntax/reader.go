package syntax

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"msci/pkg/utils/coerce"
)

// BlockTerminator ends the parameter list of a block in the legacy format.
const BlockTerminator = "END"

// ReadLegacy parses the legacy flat-file definition format. Each block is
//
//	group name
//	version flags
//	numeric id
//	help url (may be blank)
//	syntax template
//	parameter type...
//	END
//
// Blank lines and "//" comments are allowed between blocks.
func ReadLegacy(r io.Reader) ([]Declaration, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var decls []Declaration
	lineNo := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimRight(sc.Text(), "\r"), true
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		start := lineNo
		d := Declaration{Group: trimmed}
		var header [4]string
		for i := range header {
			header[i], ok = next()
			if !ok {
				return nil, fmt.Errorf("line %d: block starting at line %d is truncated", lineNo, start)
			}
		}

		v, err := ParseVersion(header[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", start+1, err)
		}
		d.Versions = v

		id, err := coerce.ToInt64(strings.TrimSpace(header[1]))
		if err != nil || id < 0 || id >= int64(UnrecognisedID) {
			return nil, fmt.Errorf("line %d: invalid command id %q", start+2, header[1])
		}
		d.ID = uint32(id)
		d.HelpURL = strings.TrimSpace(header[2])
		d.Template = strings.TrimSpace(header[3])

		for {
			param, ok := next()
			if !ok {
				return nil, fmt.Errorf("line %d: block starting at line %d has no %s line", lineNo, start, BlockTerminator)
			}
			param = strings.TrimSpace(param)
			if param == BlockTerminator {
				break
			}
			if param == "" {
				continue
			}
			d.ParamTypes = append(d.ParamTypes, param)
		}
		decls = append(decls, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return decls, nil
}

// ReadLegacyFile reads a legacy definition file from disk.
func ReadLegacyFile(path string) ([]Declaration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decls, err := ReadLegacy(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decls, nil
}

// WriteLegacy writes declarations in the format ReadLegacy understands.
func WriteLegacy(w io.Writer, decls []Declaration) error {
	bw := bufio.NewWriter(w)
	for i, d := range decls {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, d.Group)
		fmt.Fprintln(bw, d.Versions)
		fmt.Fprintln(bw, d.ID)
		fmt.Fprintln(bw, d.HelpURL)
		fmt.Fprintln(bw, d.Template)
		for _, p := range d.ParamTypes {
			fmt.Fprintln(bw, p)
		}
		fmt.Fprintln(bw, BlockTerminator)
	}
	return bw.Flush()
}
