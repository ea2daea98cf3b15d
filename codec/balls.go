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

type ballsCodec struct{}

func (ballsCodec) Name() string             { return "balls" }
func (ballsCodec) CanLoad(path string) bool { return strings.HasSuffix(path, ".balls") }
func (ballsCodec) CanSave(path string) bool { return strings.HasSuffix(path, ".balls") }

// Load reads an atoms-only .balls file: a count line, then four floats per
// atom. On any I/O or parse failure dst is reset to empty rather than
// left partially populated.
func (m ballsCodec) Load(dst *skeleton.Skeleton, path string) error {
	if err := m.load(dst, path); err != nil {
		dst.Clear(skeleton.Config{})
		return err
	}
	return nil
}

func (ballsCodec) load(dst *skeleton.Skeleton, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "balls: open")
	}
	defer f.Close()

	sc := newMoffLineScanner(f)

	countLine, ok := sc.next()
	if !ok {
		return errors.New("balls: missing atom count line")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil {
		return errors.Wrapf(err, "balls: line %d: bad atom count", sc.lineNo)
	}

	dst.Clear(skeleton.Config{AtomCapacity: natoms})

	for i := 0; i < natoms; i++ {
		line, ok := sc.next()
		if !ok {
			return errors.Errorf("balls: expected %d atoms, got %d", natoms, i)
		}
		var x, y, z, r float64
		if _, err := fmt.Sscan(line, &x, &y, &z, &r); err != nil {
			return errors.Wrapf(err, "balls: line %d: bad atom record %q", sc.lineNo, line)
		}
		if _, err := dst.AddAtom(skeleton.Ball{X: x, Y: y, Z: z, R: r}); err != nil {
			return errors.Wrapf(err, "balls: line %d: add atom", sc.lineNo)
		}
	}

	return nil
}

// Save writes every atom as four floats per line, preceded by the count.
func (ballsCodec) Save(src *skeleton.Skeleton, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "balls: create")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d\n", src.AtomCount())
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
	return w.Flush()
}
