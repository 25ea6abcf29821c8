package imagestore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart-io/minimart/config"
)

func newImageHost(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var destroyed []string
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(8<<20))
		folder := r.FormValue("folder")
		filename := r.FormValue("filename")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"public_id":  folder + "/" + filename,
			"secure_url": "https://img.example.com/" + folder + "/" + filename,
		})
	})
	mux.HandleFunc("/destroy", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(8<<20))
		destroyed = append(destroyed, r.FormValue("public_id"))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &destroyed
}

func TestRemotePutReturnsSecureURL(t *testing.T) {
	srv, _ := newImageHost(t)
	store := NewRemoteStore(config.ImageStoreConfig{
		Mode:     "remote",
		Endpoint: srv.URL,
		APIKey:   "key",
		Folder:   "product-images",
	})

	ref, err := store.Put(context.Background(), "shoe.png", strings.NewReader("binary"))
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/product-images/shoe.png", ref)
	assert.True(t, IsRemote(ref))
}

func TestRemoteRemoveDerivesPublicID(t *testing.T) {
	srv, destroyed := newImageHost(t)
	store := NewRemoteStore(config.ImageStoreConfig{
		Mode:     "remote",
		Endpoint: srv.URL,
		APIKey:   "key",
		Folder:   "product-images",
	})

	err := store.Remove(context.Background(), "https://img.example.com/product-images/shoe.png")
	require.NoError(t, err)
	require.Len(t, *destroyed, 1)
	assert.Equal(t, "product-images/shoe", (*destroyed)[0])
}

func TestRemoteRemoveSkipsLocalRefs(t *testing.T) {
	srv, destroyed := newImageHost(t)
	store := NewRemoteStore(config.ImageStoreConfig{Mode: "remote", Endpoint: srv.URL})

	require.NoError(t, store.Remove(context.Background(), "1700000000000_shoe.png"))
	assert.Empty(t, *destroyed)
}
