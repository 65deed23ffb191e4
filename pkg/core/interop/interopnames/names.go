package interopnames

// Names of all used interops.
const (
	SystemRuntimeLog                            = "System.Runtime.Log"
	SystemRuntimeNotify                         = "System.Runtime.Notify"
	SystemRuntimeSerialize                      = "System.Runtime.Serialize"
	SystemRuntimeDeserialize                    = "System.Runtime.Deserialize"
	SystemExecutionEngineGetExecutingScriptHash = "System.ExecutionEngine.GetExecutingScriptHash"
	SystemExecutionEngineGetCallingScriptHash   = "System.ExecutionEngine.GetCallingScriptHash"
	SystemExecutionEngineGetEntryScriptHash     = "System.ExecutionEngine.GetEntryScriptHash"
	SystemExecutionEngineGetScriptContainer     = "System.ExecutionEngine.GetScriptContainer"
	NeoCryptoVerifySecp256k1                    = "Neo.Crypto.VerifySecp256k1"
)

var names = []string{
	SystemRuntimeLog,
	SystemRuntimeNotify,
	SystemRuntimeSerialize,
	SystemRuntimeDeserialize,
	SystemExecutionEngineGetExecutingScriptHash,
	SystemExecutionEngineGetCallingScriptHash,
	SystemExecutionEngineGetEntryScriptHash,
	SystemExecutionEngineGetScriptContainer,
	NeoCryptoVerifySecp256k1,
}

// All returns the names of all known interops.
func All() []string {
	return append([]string(nil), names...)
}
