package launcher

// Built-in software map: the different ways a user might say an app, and
// what to actually run for it.

// defaultOrder fixes the alias lookup order. Earlier entries win when a
// spoken name contains aliases of more than one key ("wordpad" over "word",
// "brave browser" over "browser").
func defaultOrder() []string {
	return []string{
		"notepad", "calculator", "paint", "wordpad", "explorer", "cmd",
		"powershell", "taskManager", "controlPanel", "settings", "clock",
		"word", "excel", "powerpoint", "outlook", "onenote", "access",
		"publisher",
		"edge", "brave", "chrome",
		"vscode", "gitbash",
		"teams", "whatsapp", "telegram", "copilot", "steam", "epic",
		"rockstar", "rust",
		"adobeReader", "getscreen", "chatgpt",
	}
}

func defaultAliases() map[string][]string {
	return map[string][]string{
		// Windows built-in
		"notepad":      {"notepad", "note pad"},
		"calculator":   {"calculator", "calc"},
		"paint":        {"paint", "mspaint", "microsoft paint"},
		"wordpad":      {"wordpad", "write", "word pad"},
		"explorer":     {"explorer", "file explorer", "windows explorer"},
		"cmd":          {"cmd", "command prompt", "terminal", "dos"},
		"powershell":   {"powershell", "ps"},
		"taskManager":  {"task manager", "taskmgr"},
		"controlPanel": {"control panel"},
		"settings":     {"settings", "windows settings"},
		"clock":        {"clock", "alarm", "alarms and clock"},

		// Microsoft Office
		"word":       {"word", "ms word", "microsoft word"},
		"excel":      {"excel", "ms excel", "microsoft excel"},
		"powerpoint": {"powerpoint", "ppt", "ms powerpoint"},
		"outlook":    {"outlook", "ms outlook", "microsoft outlook", "email"},
		"onenote":    {"onenote", "ms onenote", "microsoft onenote"},
		"access":     {"access", "ms access", "microsoft access"},
		"publisher":  {"publisher", "ms publisher", "microsoft publisher"},

		// Browsers
		"chrome": {"chrome", "google chrome", "browser"},
		"edge":   {"edge", "microsoft edge"},
		"brave":  {"brave", "brave browser"},

		// Dev tools
		"vscode":  {"vscode", "vs code", "visual studio code", "code"},
		"gitbash": {"git bash", "gitbash"},

		// Communication
		"teams":    {"teams", "microsoft teams", "ms teams", "m s teams"},
		"whatsapp": {"whatsapp", "whatsapp desktop"},
		"telegram": {"telegram"},
		"copilot":  {"copilot", "microsoft copilot", "github copilot", "co-pilot"},
		"steam":    {"steam"},
		"epic":     {"epic", "epic games", "epic games launcher"},
		"rockstar": {"rockstar", "rockstar games", "rockstar games launcher"},
		"rust":     {"rust"},

		// Other
		"adobeReader": {"acrobat", "adobe reader", "acrobat reader", "pdf reader"},
		"getscreen":   {"getscreen", "remote desktop", "getscreen remote", "get screen"},
		"chatgpt":     {"chatgpt", "openai chatgpt", "gpt", "chat gpt"},
	}
}

func defaultExecutables() map[string]string {
	return map[string]string{
		"notepad":      "notepad.exe",
		"calculator":   "calc.exe",
		"paint":        "mspaint.exe",
		"wordpad":      "write.exe",
		"explorer":     "explorer.exe",
		"cmd":          "cmd.exe",
		"powershell":   "powershell.exe",
		"taskManager":  "taskmgr.exe",
		"controlPanel": "control.exe",
		"settings":     "ms-settings:",
		"clock":        "ms-clock:",

		"word":       "winword.exe",
		"excel":      "excel.exe",
		"powerpoint": "powerpnt.exe",
		"outlook":    "outlook.exe",
		"onenote":    "onenote.exe",
		"access":     "msaccess.exe",
		"publisher":  "mspub.exe",

		"chrome": "chrome.exe",
		"edge":   "msedge.exe",
		"brave":  "brave.exe",

		"vscode":  "code",
		"gitbash": "git-bash.exe",

		"teams":    "teams.exe",
		"whatsapp": "whatsapp.exe",
		"telegram": "telegram.exe",
		"copilot":  "copilot.exe",

		"steam":    "steam.exe",
		"epic":     "EpicGamesLauncher.exe",
		"rockstar": "Launcher.exe",
		"rust":     "RustClient.exe",

		"adobeReader": "AcroRd32.exe",
		"getscreen":   "getscreen.me",
		"chatgpt":     "chatgpt.exe",
	}
}
