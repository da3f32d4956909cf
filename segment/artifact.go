package segment

import (
	"archive/tar"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dot5enko/segment-exec/schema"
	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
)

// ArtifactSuffix marks segment artifact files on disk; the push tooling
// only ever announces files carrying it.
const ArtifactSuffix = ".tar.lz4"

type artifactManifest struct {
	Uid     string                    `json:"uid"`
	Name    string                    `json:"name"`
	Rows    int                       `json:"rows"`
	Columns []schema.ColumnDescriptor `json:"columns"`
}

// WriteArtifact serializes the segment into an lz4-compressed tar
// archive under dir and returns the artifact path.
func (s *Segment) WriteArtifact(dir string) (string, error) {

	path := filepath.Join(dir, s.Schema.Name+"-"+s.Uid.String()+ArtifactSuffix)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("unable to create artifact file : %s", err.Error())
	}
	defer f.Close()

	zw := lz4.NewWriter(f)
	tw := tar.NewWriter(zw)

	manifest := artifactManifest{
		Uid:     s.Uid.String(),
		Name:    s.Schema.Name,
		Rows:    s.numRows,
		Columns: s.Schema.Columns,
	}

	manifestBytes, _ := json.Marshal(manifest)
	if err := writeArtifactEntry(tw, "manifest.json", manifestBytes); err != nil {
		return "", err
	}

	for _, desc := range s.Schema.Columns {

		col := s.columns[desc.Name]

		if err := writeArtifactEntry(tw, "columns/"+desc.Name+".dict", encodeU64Array(col.Dict.values)); err != nil {
			return "", err
		}

		if desc.MultiValued {
			err = writeArtifactEntry(tw, "columns/"+desc.Name+".mv", encodeMultiIds(col.mv))
		} else {
			err = writeArtifactEntry(tw, "columns/"+desc.Name+".sv", encodeU32Array(col.sv))
		}
		if err != nil {
			return "", err
		}
	}

	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("unable to finalize artifact archive : %s", err.Error())
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("unable to finalize artifact compression : %s", err.Error())
	}

	slog.Info("segment artifact written", "path", path, "rows", s.numRows)

	return path, nil
}

// ReadArtifact loads a segment back from an artifact archive.
func ReadArtifact(path string) (*Segment, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open artifact : %s", err.Error())
	}
	defer f.Close()

	entries := map[string][]byte{}

	tr := tar.NewReader(lz4.NewReader(f))
	for {
		hdr, readErr := tr.Next()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("unable to read artifact archive : %s", readErr.Error())
		}

		data, dataErr := io.ReadAll(tr)
		if dataErr != nil {
			return nil, fmt.Errorf("unable to read artifact entry `%v` : %s", hdr.Name, dataErr.Error())
		}

		entries[hdr.Name] = data
	}

	manifestBytes, found := entries["manifest.json"]
	if !found {
		return nil, fmt.Errorf("artifact carries no manifest")
	}

	var manifest artifactManifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("unable to decode artifact manifest : %s", err.Error())
	}

	uid, err := uuid.Parse(manifest.Uid)
	if err != nil {
		return nil, fmt.Errorf("unable to decode artifact uid : %s", err.Error())
	}

	columns := make(map[string]*Column, len(manifest.Columns))

	for _, desc := range manifest.Columns {

		dictBytes, dictFound := entries["columns/"+desc.Name+".dict"]
		if !dictFound {
			return nil, fmt.Errorf("artifact carries no dictionary for column `%v`", desc.Name)
		}

		values := decodeU64Array(dictBytes)
		index := make(map[uint64]uint32, len(values))
		for id, v := range values {
			index[v] = uint32(id)
		}

		col := &Column{
			Desc: desc,
			Dict: &Dictionary{values: values, index: index},
		}

		if len(values) > 0 {
			col.Bounds = schema.Bounds[uint64]{Min: values[0], Max: values[len(values)-1]}
		}

		if desc.MultiValued {
			mvBytes, mvFound := entries["columns/"+desc.Name+".mv"]
			if !mvFound {
				return nil, fmt.Errorf("artifact carries no values for column `%v`", desc.Name)
			}

			mv, mvErr := decodeMultiIds(mvBytes, manifest.Rows)
			if mvErr != nil {
				return nil, fmt.Errorf("unable to decode column `%v` : %s", desc.Name, mvErr.Error())
			}
			col.mv = mv
		} else {
			svBytes, svFound := entries["columns/"+desc.Name+".sv"]
			if !svFound {
				return nil, fmt.Errorf("artifact carries no values for column `%v`", desc.Name)
			}

			col.sv = decodeU32Array(svBytes)
			if len(col.sv) != manifest.Rows {
				return nil, fmt.Errorf("column `%v` carries %d rows, manifest declares %d", desc.Name, len(col.sv), manifest.Rows)
			}
		}

		columns[desc.Name] = col
	}

	return &Segment{
		Uid: uid,
		Schema: schema.Schema{
			Name:    manifest.Name,
			Uid:     manifest.Uid,
			Columns: manifest.Columns,
		},
		columns: columns,
		numRows: manifest.Rows,
	}, nil
}

func writeArtifactEntry(tw *tar.Writer, name string, data []byte) error {

	hdr := &tar.Header{
		Name: name,
		Mode: 0o644,
		Size: int64(len(data)),
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("unable to write artifact entry header `%v` : %s", name, err.Error())
	}

	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("unable to write artifact entry `%v` : %s", name, err.Error())
	}

	return nil
}

func encodeU32Array(arr []uint32) []byte {
	out := make([]byte, 0, len(arr)*4)
	for _, v := range arr {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

func decodeU32Array(data []byte) []uint32 {
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

func encodeU64Array(arr []uint64) []byte {
	out := make([]byte, 0, len(arr)*8)
	for _, v := range arr {
		out = binary.LittleEndian.AppendUint64(out, v)
	}
	return out
}

func decodeU64Array(data []byte) []uint64 {
	out := make([]uint64, len(data)/8)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return out
}

func encodeMultiIds(rows [][]uint32) []byte {
	out := []byte{}
	for _, ids := range rows {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(ids)))
		for _, id := range ids {
			out = binary.LittleEndian.AppendUint32(out, id)
		}
	}
	return out
}

// decodeMultiIds validates as it goes, the bytes come from outside the
// process and the declared row count may not match what is on disk.
func decodeMultiIds(data []byte, numRows int) ([][]uint32, error) {

	out := make([][]uint32, numRows)
	pos := 0

	for row := 0; row < numRows; row++ {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("multi-value data ends at row %d of %d", row, numRows)
		}

		count := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4

		if pos+count*4 > len(data) {
			return nil, fmt.Errorf("multi-value row %d declares %d ids, %d bytes left", row, count, len(data)-pos)
		}

		ids := make([]uint32, count)
		for i := range ids {
			ids[i] = binary.LittleEndian.Uint32(data[pos:])
			pos += 4
		}

		out[row] = ids
	}

	return out, nil
}
