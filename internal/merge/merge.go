// Package merge reconciles freshly fetched orders with the locally cached
// copy.
//
// The remote table is authoritative for every field except images: image
// columns may legitimately be empty remotely because the sheet only stores
// a presence flag or a size-bounded payload. When the remote copy of an
// order lacks an image the local copy has, the local reference is kept.
//
// The merge runs over the remote result set only. Orders that exist only
// locally are not brought back.
package merge

import "github.com/roach88/cakeledger/internal/model"

// Reconcile returns remote with image fields patched from local by id.
// Neither input is modified.
func Reconcile(remote, local []model.Order) []model.Order {
	byID := make(map[string]model.Order, len(local))
	for _, o := range local {
		byID[o.ID] = o
	}

	merged := make([]model.Order, len(remote))
	for i, r := range remote {
		if l, ok := byID[r.ID]; ok {
			r = patchImages(r, l)
		}
		merged[i] = r
	}
	return merged
}

func patchImages(remote, local model.Order) model.Order {
	if remote.CakeImage == "" && local.CakeImage != "" {
		remote.CakeImage = local.CakeImage
	}
	if remote.DeliveredImage == "" && local.DeliveredImage != "" {
		remote.DeliveredImage = local.DeliveredImage
	}
	return remote
}
