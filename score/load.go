package score

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gruntwork-io/go-commons/errors"
)

// Load decodes timing data from JSON.
func Load(r io.Reader) (*TimingData, error) {
	var td TimingData
	if err := json.NewDecoder(r).Decode(&td); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return &td, nil
}

// LoadFile decodes timing data from a JSON file on disk.
func LoadFile(path string) (*TimingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	defer f.Close()

	return Load(f)
}

// Write encodes timing data as JSON.
func Write(w io.Writer, td *TimingData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(td); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}
