package cmd

import (
	"fmt"
	"os"
	"path"

	logging "github.com/ipfs/go-log/v2"

	"github.com/imganalysis/imganalysis/pkg/build"
)

var log = logging.Logger("cmd")

func PrintHero(addr string, bucket string, records string) {
	fmt.Printf(`
 _                                  _           _
(_)_ __ ___   __ _  __ _ _ __   __ _| |_   _ ___(_)___
| | '_ ' _ \ / _' |/ _' | '_ \ / _' | | | | / __| / __|
| | | | | | | (_| | (_| | | | | (_| | | |_| \__ \ \__ \
|_|_| |_| |_|\__, |\__,_|_| |_|\__,_|_|\__, |___/_|___/
             |___/                     |___/

🔥 imganalysis %s
🪣 bucket: %s
🗂  records: %s
🚀 Ready on %s
`, build.Version, bucket, records, addr)
}

func mkdirp(dirpath ...string) (string, error) {
	dir := path.Join(dirpath...)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("creating directory: %s: %w", dir, err)
	}
	return dir, nil
}
