package download

import (
	"context"
	"fmt"

	"github.com/mucahitkurt/rahle/app/hadith"
)

type hadithPayload struct {
	Hadiths []hadith.RawRecord `json:"hadiths"`
}

func (f *Fetcher) fetchHadiths(ctx context.Context, url string) ([]hadith.RawRecord, error) {
	var payload hadithPayload
	if err := f.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if len(payload.Hadiths) == 0 {
		return nil, fmt.Errorf("payload from %s has no hadiths array", url)
	}
	return payload.Hadiths, nil
}
