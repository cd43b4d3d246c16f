package whitelist

import "runtime"

// defaultProcesses are compiled-in, non-removable entries per GOOS: core OS
// processes plus common developer tooling.
var defaultProcesses = map[string][]string{
	"windows": {
		// System
		"System", "System Idle Process", "Registry", "smss.exe", "csrss.exe",
		"wininit.exe", "services.exe", "lsass.exe", "winlogon.exe", "explorer.exe",
		"dwm.exe", "svchost.exe", "spoolsv.exe", "RuntimeBroker.exe",
		// Development
		"Code.exe", "code.exe", "vsls-agent.exe", "git.exe", "python.exe",
		"pythonw.exe", "node.exe", "cmd.exe", "powershell.exe",
		// Security
		"MsMpEng.exe", "SecurityHealthService.exe",
		// Hardware
		"dasHost.exe", "fontdrvhost.exe", "atieclxx.exe", "atiesrxx.exe",
		// Network
		"mDNSResponder.exe",
		// Windows Update
		"TiWorker.exe", "WUDFHost.exe", "updatesvc.exe",
		// Shell
		"sihost.exe", "taskhostw.exe", "ctfmon.exe", "TextInputHost.exe",
		// Memory, audio, power
		"MemCompression", "audiodg.exe", "EABackgroundService.exe",
	},
	"linux": {
		// System
		"systemd", "init", "kthreadd", "systemd-journald", "systemd-logind",
		"systemd-udevd", "systemd-resolved", "dbus-daemon", "dbus-broker",
		"NetworkManager", "wpa_supplicant", "polkitd", "sshd", "agetty", "login",
		"cron", "rsyslogd",
		// Desktop
		"Xorg", "Xwayland", "gnome-shell", "plasmashell", "kwin_wayland",
		"pipewire", "wireplumber", "pulseaudio",
		// Development and shells
		"code", "git", "python3", "node", "gopls", "bash", "zsh", "fish", "tmux",
	},
	"darwin": {
		// System
		"kernel_task", "launchd", "WindowServer", "loginwindow", "Finder", "Dock",
		"SystemUIServer", "mds", "mds_stores", "coreaudiod", "cfprefsd",
		"mDNSResponder", "securityd", "opendirectoryd",
		// Development and shells
		"Code Helper", "Electron", "git", "python3", "node", "gopls", "Terminal",
		"iTerm2", "bash", "zsh", "fish", "tmux",
	},
}

// DefaultSet returns the compiled-in whitelist for goos. Unknown platforms
// get an empty set.
func DefaultSet(goos string) map[string]struct{} {
	names := defaultProcesses[goos]
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func currentDefaults() map[string]struct{} {
	return DefaultSet(runtime.GOOS)
}
