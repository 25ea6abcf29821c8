package imagestore

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/minimart-io/minimart/config"
)

// RemoteStore uploads images to an external image hosting API and keeps
// only the returned https URL as the reference. Assets live under a
// fixed folder namespace on the host.
type RemoteStore struct {
	endpoint  string
	apiKey    string
	apiSecret string
	folder    string
}

func NewRemoteStore(cfg config.ImageStoreConfig) *RemoteStore {
	folder := cfg.Folder
	if folder == "" {
		folder = "product-images"
	}
	return &RemoteStore{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    folder,
	}
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     string `json:"error"`
}

func (s *RemoteStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "read upload body")
	}

	var (
		resp uploadResponse
		code int
	)
	err = gout.POST(s.endpoint + "/upload").
		WithContext(ctx).
		SetForm(gout.H{
			"api_key":    s.apiKey,
			"api_secret": s.apiSecret,
			"folder":     s.folder,
			"filename":   path.Base(filename),
			"file":       gout.FormMem(data),
		}).
		Code(&code).
		BindJSON(&resp).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	if code != http.StatusOK || resp.SecureURL == "" {
		return "", errors.Errorf("image host upload failed: status=%d error=%s", code, resp.Error)
	}
	return resp.SecureURL, nil
}

// Remove issues a destroy call for a remotely hosted reference. The
// public id is the URL basename without extension, namespaced under the
// store folder. Local references are skipped.
func (s *RemoteStore) Remove(ctx context.Context, ref string) error {
	if !IsRemote(ref) {
		return nil
	}

	base := path.Base(ref)
	publicID := s.folder + "/" + strings.TrimSuffix(base, path.Ext(base))

	var code int
	err := gout.POST(s.endpoint + "/destroy").
		WithContext(ctx).
		SetForm(gout.H{
			"api_key":    s.apiKey,
			"api_secret": s.apiSecret,
			"public_id":  publicID,
		}).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "destroy image")
	}
	if code != http.StatusOK {
		zap.L().Warn("image host destroy refused", zap.String("public_id", publicID), zap.Int("status", code))
	}
	return nil
}
