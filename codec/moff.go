package codec

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/median-path/skeleton/skeleton"
)

type moffCodec struct{}

func (moffCodec) Name() string { return "moff" }

func (moffCodec) CanLoad(path string) bool { return strings.HasSuffix(path, ".moff") }
func (moffCodec) CanSave(path string) bool { return strings.HasSuffix(path, ".moff") }

// moffLineScanner yields non-blank lines with // comments stripped,
// tracking a 1-based line number for error messages.
type moffLineScanner struct {
	scanner *bufio.Scanner
	lineNo  int
}

func newMoffLineScanner(r *os.File) *moffLineScanner {
	return &moffLineScanner{scanner: bufio.NewScanner(r)}
}

func (m *moffLineScanner) next() (string, bool) {
	for m.scanner.Scan() {
		m.lineNo++
		line := m.scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

// Load reads a .moff file, resetting dst on success. On any I/O or parse
// failure dst is reset to empty instead of left partially populated, so a
// partial load is never observable. Polygon records with more than two
// indices produce pairwise consecutive links around the cycle plus a
// triangle fan anchored at the polygon's last index.
func (m moffCodec) Load(dst *skeleton.Skeleton, path string) error {
	if err := m.load(dst, path); err != nil {
		dst.Clear(skeleton.Config{})
		return err
	}
	return nil
}

func (moffCodec) load(dst *skeleton.Skeleton, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "moff: open")
	}
	defer f.Close()

	sc := newMoffLineScanner(f)

	header, ok := sc.next()
	if !ok {
		return errors.New("moff: missing header line")
	}
	fields := strings.Fields(header)
	if len(fields) < 4 || fields[0] != "MOFF" {
		return errors.Errorf("moff: line %d: invalid header %q", sc.lineNo, header)
	}
	// the scale token is validated but not applied to the loaded atoms
	if _, err := strconv.ParseFloat(fields[3], 64); err != nil {
		return errors.Wrapf(err, "moff: line %d: bad scale", sc.lineNo)
	}
	natoms, err := strconv.Atoi(fields[1])
	if err != nil {
		return errors.Wrapf(err, "moff: line %d: bad atom count", sc.lineNo)
	}
	nfaces, err := strconv.Atoi(fields[2])
	if err != nil {
		return errors.Wrapf(err, "moff: line %d: bad face count", sc.lineNo)
	}

	dst.Clear(skeleton.Config{AtomCapacity: natoms, LinkCapacity: natoms * 3, FaceCapacity: nfaces})

	atomHandles := make([]skeleton.AtomHandle, natoms)
	for i := 0; i < natoms; i++ {
		line, ok := sc.next()
		if !ok {
			return errors.Errorf("moff: expected %d atoms, got %d", natoms, i)
		}
		var x, y, z, r float64
		if _, err := fmt.Sscan(line, &x, &y, &z, &r); err != nil {
			return errors.Wrapf(err, "moff: line %d: bad atom record %q", sc.lineNo, line)
		}
		h, err := dst.AddAtom(skeleton.Ball{X: x, Y: y, Z: z, R: r})
		if err != nil {
			return errors.Wrapf(err, "moff: line %d: add atom", sc.lineNo)
		}
		atomHandles[i] = h
	}

	for i := 0; i < nfaces; i++ {
		line, ok := sc.next()
		if !ok {
			return errors.Errorf("moff: expected %d faces, got %d", nfaces, i)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return errors.Errorf("moff: line %d: empty face record", sc.lineNo)
		}
		k, err := strconv.Atoi(fields[0])
		if err != nil || len(fields) < 1+k {
			return errors.Errorf("moff: line %d: bad face record %q", sc.lineNo, line)
		}
		indices := make([]int, k)
		for j := 0; j < k; j++ {
			idx, err := strconv.Atoi(fields[1+j])
			if err != nil || idx < 0 || idx >= natoms {
				return errors.Errorf("moff: line %d: bad atom index in face record %q", sc.lineNo, line)
			}
			indices[j] = idx
		}
		if err := addMoffPolygon(dst, atomHandles, indices); err != nil {
			return errors.Wrapf(err, "moff: line %d: polygon", sc.lineNo)
		}
	}

	return nil
}

// addMoffPolygon fan-triangulates one face record: for two or more
// indices, links are added between every consecutive pair walking the
// cycle starting from the last index, and for more than two a triangle
// fan anchored at the original last index is added alongside.
func addMoffPolygon(dst *skeleton.Skeleton, atoms []skeleton.AtomHandle, indices []int) error {
	if len(indices) <= 1 {
		return nil
	}
	anchor := indices[len(indices)-1]
	last := anchor
	for _, current := range indices {
		if _, err := dst.AddLink(atoms[current], atoms[last]); err != nil {
			return err
		}
		if current != anchor && last != anchor {
			if _, err := dst.AddLink(atoms[current], atoms[anchor]); err != nil {
				return err
			}
			if _, err := dst.AddFace(atoms[current], atoms[anchor], atoms[last]); err != nil {
				return err
			}
		}
		last = current
	}
	return nil
}

// Save writes src as a MOFF file: header, every atom, then every face as a
// 3-index triangle record. Links with no incident face are not serialized;
// the format has no record type for them.
func (moffCodec) Save(src *skeleton.Skeleton, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "moff: create")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "MOFF %d %d 1\n", src.AtomCount(), src.FaceCount())

	for i := 0; i < src.AtomCount(); i++ {
		h, err := src.AtomAt(i)
		if err != nil {
			return err
		}
		b, err := src.GetAtom(h)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%.10g %.10g %.10g %.10g\n", b.X, b.Y, b.Z, b.R)
	}

	for i := 0; i < src.FaceCount(); i++ {
		h, err := src.FaceAt(i)
		if err != nil {
			return err
		}
		atoms, _, err := src.GetFace(h)
		if err != nil {
			return err
		}
		ia, err := src.AtomIndexOf(atoms[0])
		if err != nil {
			return err
		}
		ib, err := src.AtomIndexOf(atoms[1])
		if err != nil {
			return err
		}
		ic, err := src.AtomIndexOf(atoms[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "3 %d %d %d\n", ia, ib, ic)
	}

	return w.Flush()
}
