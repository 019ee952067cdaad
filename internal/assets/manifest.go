package assets

import (
	"fmt"
	"strings"
)

// DefaultRepo hosts the ONNX export of Kokoro together with its vocabulary
// and voice packs.
const DefaultRepo = "onnx-community/Kokoro-82M-v1.0-ONNX"

// DictionaryURL is the CMU pronouncing dictionary.
const DictionaryURL = "https://raw.githubusercontent.com/cmusphinx/cmudict/master/cmudict.dict"

// Manifest lists the files needed to run the synthesizer.
type Manifest struct {
	Repo  string `json:"repo"`
	Files []File `json:"files"`
}

// File is one downloadable asset. Path is relative to the output directory
// and, for repo files, also the path inside the repo. URL overrides the
// repo location. An empty SHA256 is resolved from server metadata, or
// recorded on first download when the server offers none.
type File struct {
	Path     string `json:"path"`
	Revision string `json:"revision,omitempty"`
	URL      string `json:"url,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
}

// KokoroManifest returns the model, vocabulary, dictionary and the given
// voices from repo.
func KokoroManifest(repo string, voices []string) (Manifest, error) {
	if repo == "" {
		repo = DefaultRepo
	}
	if len(voices) == 0 {
		return Manifest{}, fmt.Errorf("at least one voice is required")
	}

	m := Manifest{
		Repo: repo,
		Files: []File{
			{Path: "onnx/model.onnx", Revision: "main"},
			{Path: "tokenizer.json", Revision: "main"},
			{Path: "cmudict.dict", URL: DictionaryURL},
		},
	}
	seen := make(map[string]bool, len(voices))
	for _, v := range voices {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		if strings.ContainsAny(v, `/\.`) {
			return Manifest{}, fmt.Errorf("invalid voice id %q", v)
		}
		seen[v] = true
		m.Files = append(m.Files, File{Path: "voices/" + v + ".bin", Revision: "main"})
	}
	return m, nil
}
