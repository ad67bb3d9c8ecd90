package platform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bdougie/pagecap/internal/models"
)

// listWindowsScript walks the visible processes through System Events
// and prints their windows as JSON.
const listWindowsScript = `
var se = Application("System Events");
var out = [];
se.processes.whose({visible: true})().forEach(function (p) {
	var owner = "", pid = 0;
	try { owner = p.name(); pid = p.unixId(); } catch (e) { return; }
	var wins = [];
	try { wins = p.windows(); } catch (e) { return; }
	wins.forEach(function (w) {
		var title = "", pos = [0, 0], size = [0, 0];
		try { title = w.name() || ""; } catch (e) {}
		try { pos = w.position() || pos; size = w.size() || size; } catch (e) {}
		out.push({title: title, owner: owner, pid: pid, x: pos[0], y: pos[1], width: size[0], height: size[1]});
	});
});
JSON.stringify(out);
`

// captureRegistryScript reads the on-screen CoreGraphics window list
// (kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements).
const captureRegistryScript = `
ObjC.import("CoreGraphics");
var info = ObjC.castRefToObject($.CGWindowListCopyWindowInfo(17, 0));
var out = [];
for (var i = 0; i < info.count; i++) {
	var w = ObjC.deepUnwrap(info.objectAtIndex(i));
	if (w.kCGWindowLayer !== 0) continue;
	var b = w.kCGWindowBounds || {};
	out.push({id: w.kCGWindowNumber, title: w.kCGWindowName || "", owner: w.kCGWindowOwnerName || "",
		pid: w.kCGWindowOwnerPID || 0, x: b.X || 0, y: b.Y || 0, width: b.Width || 0, height: b.Height || 0});
}
JSON.stringify(out);
`

// activateScript brings the owning process forward, then raises the
// window titled argv[1] above its siblings. Prints "missing" when no
// window of the process carries that title.
const activateScript = `
function run(argv) {
	var se = Application("System Events");
	var procs = se.processes.whose({unixId: parseInt(argv[0], 10)});
	if (procs.length === 0) throw new Error("no process with pid " + argv[0]);
	var p = procs[0];
	p.frontmost = true;
	if (!argv[1]) return "";
	var wins = p.windows.whose({name: argv[1]})();
	if (wins.length === 0) return "missing";
	wins[0].actions.byName("AXRaise").perform();
	return "";
}
`

// windowMissing reports the activate script's marker for an unmatched title
func windowMissing(out []byte) bool {
	return strings.TrimSpace(string(out)) == "missing"
}

const keyCodeScript = `
function run(argv) {
	Application("System Events").keyCode(parseInt(argv[0], 10));
}
`

type jxaWindow struct {
	ID     uint64  `json:"id"`
	Title  string  `json:"title"`
	Owner  string  `json:"owner"`
	PID    int     `json:"pid"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func parseWindowList(out []byte) ([]models.WindowRef, error) {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}

	var raw []jxaWindow
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse window list: %w", err)
	}

	windows := make([]models.WindowRef, 0, len(raw))
	for _, w := range raw {
		windows = append(windows, models.WindowRef{
			ID:     w.ID,
			Title:  w.Title,
			App:    w.Owner,
			PID:    w.PID,
			Bounds: [4]int{int(w.X), int(w.Y), int(w.Width), int(w.Height)},
		})
	}
	return windows, nil
}
