package integrity

import (
	"encoding/base64"
	"encoding/hex"

	digest "github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// checksumAlgorithm tags the digests produced from a Checksum as "md5":
// the record's checksums are base64 md5, not the sha256 that
// digest.Digest's own Algorithm constants assume. digest.Digest is only a formatted string
// ("alg:hex"); composing one here does not require md5 to be a
// registered/available digest.Algorithm.
const checksumAlgorithm = digest.Algorithm("md5")

// Digest re-expresses c as a digest.Digest-shaped value: the record's
// checksums are base64, while every digest.Digest in the OCI ecosystem is
// hex-encoded, so the conversion re-encodes the underlying bytes rather
// than just retagging the string.
func (c Checksum) Digest() (digest.Digest, error) {
	raw, err := base64.URLEncoding.DecodeString(string(c))
	if err != nil {
		return "", err
	}
	return digest.NewDigestFromEncoded(checksumAlgorithm, hex.EncodeToString(raw)), nil
}

// ToDescriptor renders a ManifestEntry as an imgspecv1.Descriptor, the
// same mediaType/size/digest triad the OCI image-spec uses to describe
// one piece of addressable content. This is a read-only, descriptive
// view used by inspection tooling (the "describe" command's output);
// the manifest's own Checksum/SizeBytes/MimeType fields remain the
// source of truth.
func (e ManifestEntry) ToDescriptor() (imgspecv1.Descriptor, error) {
	d, err := e.Checksum.Digest()
	if err != nil {
		return imgspecv1.Descriptor{}, err
	}
	return imgspecv1.Descriptor{
		MediaType: e.MimeType,
		Digest:    d,
		Size:      e.SizeBytes,
	}, nil
}
