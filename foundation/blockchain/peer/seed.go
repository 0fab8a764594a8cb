package peer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// seedFile represents the YAML document listing the peers a node starts with.
//
//	peers:
//	  - localhost:5001
//	  - http://10.0.0.7:5000
type seedFile struct {
	Peers []string `yaml:"peers"`
}

// LoadSeeds reads the seed file and returns the normalized peers it lists.
// Any address that fails normalization fails the whole file.
func LoadSeeds(path string) ([]Peer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	var sf seedFile
	if err := yaml.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}

	peers := make([]Peer, 0, len(sf.Peers))
	for _, address := range sf.Peers {
		pr, err := New(address)
		if err != nil {
			return nil, err
		}
		peers = append(peers, pr)
	}

	return peers, nil
}
