package push

// maxTitleRunes is the display budget for notification titles. Push title
// bars truncate unpredictably across devices, so truncation is done
// deterministically server-side instead.
const maxTitleRunes = 40

// FormatTitle prefixes a notification title with the endpoint's server label.
// When the combined title exceeds the display budget, the original title is
// truncated from the front (the suffix carries the signal) and an ellipsis is
// spliced in after the label, keeping the label intact and the budget exact.
// Counted in runes, not bytes.
func FormatTitle(serverName, title string) string {
	if serverName == "" {
		return title
	}

	full := serverName + ": " + title
	if len([]rune(full)) <= maxTitleRunes {
		return full
	}

	prefix := serverName + ": ..."
	remaining := maxTitleRunes - len([]rune(prefix))
	if remaining < 0 {
		remaining = 0
	}

	runes := []rune(title)
	if len(runes) > remaining {
		runes = runes[len(runes)-remaining:]
	}
	return prefix + string(runes)
}
