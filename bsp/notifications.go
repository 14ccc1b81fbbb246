package bsp

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// MessageType is the severity of a build/showMessage or build/logMessage notification.
type MessageType int

const (
	MessageError   MessageType = 1
	MessageWarning MessageType = 2
	MessageInfo    MessageType = 3
	MessageLog     MessageType = 4
)

// LogMessageParams is the parameter of build/showMessage and build/logMessage.
type LogMessageParams struct {
	Type     MessageType            `json:"type"`
	Task     ldvalue.Value          `json:"task"`
	OriginID ldvalue.OptionalString `json:"originId"`
	Message  string                 `json:"message"`
}

// TaskFinishParams is the parameter of build/taskFinish. Only the fields the harness logs are
// decoded.
type TaskFinishParams struct {
	TaskID   ldvalue.Value          `json:"taskId"`
	Message  ldvalue.OptionalString `json:"message"`
	Status   StatusCode             `json:"status"`
	DataKind string                 `json:"dataKind,omitempty"`
}
