package telegram

import (
	"strings"
)

// Callback action constants.
const (
	actionMode     = "mode"
	actionAnswer   = "answer"
	actionFlip     = "flip"
	actionNext     = "next"
	actionKnown    = "known"
	actionStop     = "stop"
	actionList     = "list"
	actionProgress = "progress"
	actionSettings = "settings"
	actionReset    = "reset"
)

// Settings sub-actions.
const (
	settingsMenu      = "menu"
	settingsReminders = "reminders"
	settingsLevel     = "level"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildModeCallback builds callback data for starting a session. The optional
// second parameter carries the question kind for verb family quizzes.
func buildModeCallback(mode string, kind ...string) string {
	params := []string{mode}
	params = append(params, kind...)
	return callbackData{Action: actionMode, Params: params}.encode()
}

// buildAnswerCallback builds callback data for a button answer.
func buildAnswerCallback(value string) string {
	return callbackData{Action: actionAnswer, Params: []string{value}}.encode()
}

func buildFlipCallback() string {
	return callbackData{Action: actionFlip}.encode()
}

func buildNextCallback() string {
	return callbackData{Action: actionNext}.encode()
}

func buildKnownCallback() string {
	return callbackData{Action: actionKnown}.encode()
}

func buildStopCallback() string {
	return callbackData{Action: actionStop}.encode()
}

// buildListCallback builds callback data for opening a verb family's
// reference word list.
func buildListCallback(category string) string {
	return callbackData{Action: actionList, Params: []string{category}}.encode()
}

// buildProgressCallback builds callback data for opening the progress view.
func buildProgressCallback() string {
	return actionProgress
}

// buildSettingsCallback builds callback data for settings-related actions.
func buildSettingsCallback(subAction string, value ...string) string {
	params := []string{subAction}
	params = append(params, value...)
	return callbackData{Action: actionSettings, Params: params}.encode()
}

func buildReminderToggleCallback() string {
	return buildSettingsCallback(settingsReminders)
}

func buildLevelCallback(level string) string {
	return buildSettingsCallback(settingsLevel, level)
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
