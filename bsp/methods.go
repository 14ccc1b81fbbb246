package bsp

// JSON-RPC method names used by the harness.
const (
	MethodBuildInitialize   = "build/initialize"
	MethodBuildInitialized  = "build/initialized"
	MethodBuildShutdown     = "build/shutdown"
	MethodBuildExit         = "build/exit"
	MethodWorkspaceTargets  = "workspace/buildTargets"
	MethodSources           = "buildTarget/sources"
	MethodDependencySources = "buildTarget/dependencySources"
	MethodResources         = "buildTarget/resources"
	MethodCompile           = "buildTarget/compile"
	MethodRun               = "buildTarget/run"
	MethodTest              = "buildTarget/test"
	MethodCleanCache        = "buildTarget/cleanCache"
	MethodInverseSources    = "buildTarget/inverseSources"
)

// Notifications that a server may send to the client at any time.
const (
	NotificationShowMessage        = "build/showMessage"
	NotificationLogMessage         = "build/logMessage"
	NotificationPublishDiagnostics = "build/publishDiagnostics"
	NotificationTaskStart          = "build/taskStart"
	NotificationTaskProgress       = "build/taskProgress"
	NotificationTaskFinish         = "build/taskFinish"
	NotificationTargetDidChange    = "buildTarget/didChange"
)

// AllServerNotifications lists the notification methods defined for the server-to-client direction.
var AllServerNotifications = []string{
	NotificationShowMessage,
	NotificationLogMessage,
	NotificationPublishDiagnostics,
	NotificationTaskStart,
	NotificationTaskProgress,
	NotificationTaskFinish,
	NotificationTargetDidChange,
}
