package level

import (
	"embed"
	"fmt"

	"github.com/vovakirdan/tumble/internal/registry"
)

//go:embed packs/classic/*.yaml
var classicFS embed.FS

// ClassicID is the id of the built-in pack.
const ClassicID = "classic"

// Classic loads the built-in pack.
func Classic() (*Pack, error) {
	return LoadFS(classicFS, "packs/classic", ClassicID, "Classic")
}

func init() {
	registry.Register(ClassicID, "Classic", func() (registry.Pack, error) {
		p, err := Classic()
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Open returns a registered pack by id.
func Open(id string) (*Pack, error) {
	p, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	pack, ok := p.(*Pack)
	if !ok {
		return nil, fmt.Errorf("level: pack %q is not a level pack", id)
	}
	return pack, nil
}
