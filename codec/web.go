package codec

import (
	"encoding/json"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/median-path/skeleton/skeleton"
)

// webDocument is the single-line JSON summary the .web format produces for
// browser consumption. Write-only: there is no loader.
type webDocument struct {
	Author        string    `json:"author"`
	NumberOfAtoms int       `json:"number_of_atoms"`
	NumberOfLinks int       `json:"number_of_links"`
	NumberOfFaces int       `json:"number_of_faces"`
	MaxRadius     float64   `json:"max_radius"`
	MinRadius     float64   `json:"min_radius"`
	Atoms         []float64 `json:"atoms"`
	Links         []int     `json:"links"`
	Faces         []int     `json:"faces"`
}

const webAuthor = "median-skeleton"

type webCodec struct{}

func (webCodec) Name() string             { return "web" }
func (webCodec) CanSave(path string) bool { return strings.HasSuffix(path, ".web") }

// Save writes src as a single-line JSON document. There is no corresponding
// Load: .web is write-only.
func (webCodec) Save(src *skeleton.Skeleton, path string) error {
	doc := webDocument{
		Author:        webAuthor,
		NumberOfAtoms: src.AtomCount(),
		NumberOfLinks: src.LinkCount(),
		NumberOfFaces: src.FaceCount(),
		MinRadius:     math.MaxFloat64,
		MaxRadius:     -1,
		Atoms:         make([]float64, 0, src.AtomCount()*4),
		Links:         make([]int, 0, src.LinkCount()*2),
		Faces:         make([]int, 0, src.FaceCount()*3),
	}

	for i := 0; i < src.AtomCount(); i++ {
		h, err := src.AtomAt(i)
		if err != nil {
			return err
		}
		b, err := src.GetAtom(h)
		if err != nil {
			return err
		}
		doc.Atoms = append(doc.Atoms, b.X, b.Y, b.Z, b.R)
		if b.R < doc.MinRadius {
			doc.MinRadius = b.R
		}
		if b.R > doc.MaxRadius {
			doc.MaxRadius = b.R
		}
	}
	if src.AtomCount() == 0 {
		doc.MinRadius = 0
	}

	for i := 0; i < src.LinkCount(); i++ {
		h, err := src.LinkAt(i)
		if err != nil {
			return err
		}
		a, b, err := src.GetLinkAtoms(h)
		if err != nil {
			return err
		}
		ia, err := src.AtomIndexOf(a)
		if err != nil {
			return err
		}
		ib, err := src.AtomIndexOf(b)
		if err != nil {
			return err
		}
		doc.Links = append(doc.Links, ia, ib)
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
		doc.Faces = append(doc.Faces, ia, ib, ic)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "web: marshal")
	}
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(err, "web: write")
	}
	return nil
}
