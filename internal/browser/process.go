package browser

import (
	"log"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// CloseExistingChrome kills any running Chrome processes. Chrome refuses to
// share a user profile between two running instances, so the automated
// session cannot start while a normal one holds the profile lock.
func CloseExistingChrome() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("taskkill", "/f", "/im", "chrome.exe")
	} else {
		cmd = exec.Command("pkill", "-f", "chrome")
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		// pkill exits non-zero when nothing matched, which is fine here.
		log.Printf("Closing existing Chrome: %v (%s)", err, strings.TrimSpace(string(out)))
	} else {
		log.Println("Closed existing Chrome instances")
	}

	time.Sleep(2 * time.Second)
}

// ChromeVersion reports the installed Chrome version, or "" when it cannot
// be determined. Logged at startup so version-mismatch reports are debuggable.
func ChromeVersion() string {
	switch runtime.GOOS {
	case "windows":
		out, err := exec.Command("reg", "query", `HKCU\Software\Google\Chrome\BLBeacon`, "/v", "version").Output()
		if err != nil {
			log.Printf("Could not determine Chrome version: %v", err)
			return ""
		}
		fields := strings.Fields(string(out))
		if len(fields) == 0 {
			return ""
		}
		return fields[len(fields)-1]
	case "darwin":
		out, err := exec.Command("/Applications/Google Chrome.app/Contents/MacOS/Google Chrome", "--version").Output()
		if err != nil {
			log.Printf("Could not determine Chrome version: %v", err)
			return ""
		}
		return strings.TrimSpace(strings.ReplaceAll(string(out), "Google Chrome", ""))
	default:
		out, err := exec.Command("google-chrome", "--version").Output()
		if err != nil {
			log.Printf("Could not determine Chrome version: %v", err)
			return ""
		}
		return strings.TrimSpace(strings.ReplaceAll(string(out), "Google Chrome", ""))
	}
}
