package immich

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// DeviceAssetID derives a stable identifier for a physical file from its
// path, size, and modification time. Re-uploading the same unchanged file
// produces the same id, which lets the server recognize it as a duplicate
// instead of a new asset.
func DeviceAssetID(path string, size int64, mtime time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d_%d", path, size, mtime.UnixNano())))
	return hex.EncodeToString(sum[:])
}
