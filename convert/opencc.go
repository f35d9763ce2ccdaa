package convert

import (
	"fmt"
	"sync"

	"github.com/liuzl/gocc"
)

// goccMu guards gocc.Dir, which the library reads while loading a
// conversion.
var goccMu sync.Mutex

// OpenCC converts with OpenCC configurations and dictionaries. The directory
// holds the config/ and dictionary/ trees of an OpenCC installation.
type OpenCC struct {
	toSimp *gocc.OpenCC
	toTrad *gocc.OpenCC
}

var _ Converter = (*OpenCC)(nil)

// NewOpenCC loads the t2s and s2t conversions from dir.
func NewOpenCC(dir string) (*OpenCC, error) {
	goccMu.Lock()
	defer goccMu.Unlock()

	*gocc.Dir = dir
	t2s, err := gocc.New("t2s")
	if err != nil {
		return nil, fmt.Errorf("opencc t2s: %w", err)
	}
	s2t, err := gocc.New("s2t")
	if err != nil {
		return nil, fmt.Errorf("opencc s2t: %w", err)
	}
	return &OpenCC{toSimp: t2s, toTrad: s2t}, nil
}

// Convert returns text unchanged when the conversion fails.
func (o *OpenCC) Convert(text string, target Variant) string {
	cc := o.toSimp
	if target == Traditional {
		cc = o.toTrad
	}
	if text == "" {
		return text
	}
	out, err := cc.Convert(text)
	if err != nil {
		return text
	}
	return out
}
