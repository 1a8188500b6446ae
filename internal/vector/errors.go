package vector

import "errors"

var errNoEmbedder = errors.New("no embedder configured and job has no precomputed embedding")
