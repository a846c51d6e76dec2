package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionSurahs   = "surahs"
	actionOpen     = "open"
	actionRepeat   = "rep"
	actionAdvance  = "adv"
	actionAnswer   = "ans"
	actionPlan     = "plan"
	actionProgress = "progress"
	actionReset    = "reset"
)

// Reset sub-actions.
const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
	resetAll     = "all"
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
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// intParam returns the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func buildSurahsPageCallback(page int) string {
	return callbackData{Action: actionSurahs, Params: []string{strconv.Itoa(page)}}.encode()
}

func buildSurahCallback(action string, surah int) string {
	return callbackData{Action: action, Params: []string{strconv.Itoa(surah)}}.encode()
}

// buildAnswerCallback builds callback data for answering a recall test.
// A uuid quiz id keeps it well under the 64 byte Telegram limit.
func buildAnswerCallback(surah int, quizID string, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(surah), quizID, strconv.Itoa(option)},
	}.encode()
}

func buildProgressCallback() string {
	return actionProgress
}

func buildResetConfirmCallback(target string) string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm, target}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
