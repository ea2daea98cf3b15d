package codec

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/median-path/skeleton/skeleton"
)

// medianHeader holds author/version metadata plus count hints. Counts are
// reserve-capacity hints, not authoritative. ID carries the skeleton's
// identity across save/load for metric/log traceability.
type medianHeader struct {
	Author         string `json:"author"`
	Version        string `json:"version"`
	ID             string `json:"id,omitempty"`
	Atoms          int    `json:"atoms"`
	Links          int    `json:"links"`
	Faces          int    `json:"faces"`
	AtomProperties int    `json:"atom_properties"`
	LinkProperties int    `json:"link_properties"`
	FaceProperties int    `json:"face_properties"`
}

// medianDocument is the root object of a .median file.
type medianDocument struct {
	Header         medianHeader `json:"header"`
	Atoms          []float64    `json:"atoms"`
	Links          []int        `json:"links"`
	Faces          []int        `json:"faces"`
	AtomProperties interface{}  `json:"atom_properties"`
	LinkProperties interface{}  `json:"link_properties"`
	FaceProperties interface{}  `json:"face_properties"`
}

const medianAuthor = "median-skeleton"
const medianVersion = "1.0"

type medianCodec struct{}

func (medianCodec) Name() string             { return "median" }
func (medianCodec) CanLoad(path string) bool { return strings.HasSuffix(path, ".median") }
func (medianCodec) CanSave(path string) bool { return strings.HasSuffix(path, ".median") }

// Load parses a .median document and rebuilds dst from its flattened atom/
// link/face arrays. Property tables are never restored; the current format
// always writes them as null. On any parse or add failure dst is reset to
// empty rather than left partially populated.
func (m medianCodec) Load(dst *skeleton.Skeleton, path string) error {
	if err := m.load(dst, path); err != nil {
		dst.Clear(skeleton.Config{})
		return err
	}
	return nil
}

func (medianCodec) load(dst *skeleton.Skeleton, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "median: read")
	}

	var doc medianDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, "median: parse")
	}
	if len(doc.Atoms)%4 != 0 {
		return errors.Errorf("median: atoms array length %d not a multiple of 4", len(doc.Atoms))
	}
	if len(doc.Links)%2 != 0 {
		return errors.Errorf("median: links array length %d not a multiple of 2", len(doc.Links))
	}
	if len(doc.Faces)%3 != 0 {
		return errors.Errorf("median: faces array length %d not a multiple of 3", len(doc.Faces))
	}

	dst.Clear(skeleton.Config{
		AtomCapacity: doc.Header.Atoms,
		LinkCapacity: doc.Header.Links,
		FaceCapacity: doc.Header.Faces,
	})
	if doc.Header.ID != "" {
		if id, err := uuid.Parse(doc.Header.ID); err == nil {
			dst.SetID(id)
		}
	}

	natoms := len(doc.Atoms) / 4
	handles := make([]skeleton.AtomHandle, natoms)
	for i := 0; i < natoms; i++ {
		b := skeleton.Ball{X: doc.Atoms[4*i], Y: doc.Atoms[4*i+1], Z: doc.Atoms[4*i+2], R: doc.Atoms[4*i+3]}
		h, err := dst.AddAtom(b)
		if err != nil {
			return errors.Wrapf(err, "median: add atom %d", i)
		}
		handles[i] = h
	}

	for i := 0; i < len(doc.Links)/2; i++ {
		ia, ib := doc.Links[2*i], doc.Links[2*i+1]
		if ia < 0 || ia >= natoms || ib < 0 || ib >= natoms {
			return errors.Errorf("median: link %d references out-of-range atom index", i)
		}
		if _, err := dst.AddLink(handles[ia], handles[ib]); err != nil {
			return errors.Wrapf(err, "median: add link %d", i)
		}
	}

	for i := 0; i < len(doc.Faces)/3; i++ {
		ia, ib, ic := doc.Faces[3*i], doc.Faces[3*i+1], doc.Faces[3*i+2]
		if ia < 0 || ia >= natoms || ib < 0 || ib >= natoms || ic < 0 || ic >= natoms {
			return errors.Errorf("median: face %d references out-of-range atom index", i)
		}
		if _, err := dst.AddFace(handles[ia], handles[ib], handles[ic]); err != nil {
			return errors.Wrapf(err, "median: add face %d", i)
		}
	}

	return nil
}

// Save writes src as a .median document: header counts, then flattened
// atom/link/face arrays in packed-index order, with null property sections.
func (medianCodec) Save(src *skeleton.Skeleton, path string) error {
	doc := medianDocument{
		Header: medianHeader{
			Author:  medianAuthor,
			Version: medianVersion,
			ID:      src.ID().String(),
			Atoms:   src.AtomCount(),
			Links:   src.LinkCount(),
			Faces:   src.FaceCount(),
		},
		Atoms: make([]float64, 0, src.AtomCount()*4),
		Links: make([]int, 0, src.LinkCount()*2),
		Faces: make([]int, 0, src.FaceCount()*3),
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
		return errors.Wrap(err, "median: marshal")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(err, "median: write")
	}
	return nil
}
