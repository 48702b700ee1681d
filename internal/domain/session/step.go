// internal/domain/session/step.go
package session

// Step はアクティブなアイテム 1 件のミント進行状態です。
// 成功経路:
//   MetadataUploading -> Approving -> Sending -> Finalizing -> Signing -> Success
// 失敗分岐:
//   MetadataUploading -> MetadataUploadFailed
//   Approving         -> ApprovalFailed   (ウォレットによる承認拒否)
//   Approving/Sending -> SendingFailed    (それ以外の送信系失敗)
//   Signing           -> SigningFailed
type Step string

const (
	StepMetadataUploading    Step = "metadata_uploading"
	StepApproving            Step = "approving"
	StepSending              Step = "sending"
	StepFinalizing           Step = "finalizing"
	StepSigning              Step = "signing"
	StepSuccess              Step = "success"
	StepMetadataUploadFailed Step = "metadata_upload_failed"
	StepApprovalFailed       Step = "approval_failed"
	StepSendingFailed        Step = "sending_failed"
	StepSigningFailed        Step = "signing_failed"
)

// Failed は失敗状態かどうかを返します。
// 失敗状態は terminal-but-recoverable（ユーザー操作の Retry / Skip 待ち）です。
func (s Step) Failed() bool {
	switch s {
	case StepMetadataUploadFailed, StepApprovalFailed, StepSendingFailed, StepSigningFailed:
		return true
	}
	return false
}

// Terminal は当該アイテムの処理が完了したかどうかを返します。
func (s Step) Terminal() bool {
	return s == StepSuccess
}

// RetryTarget は Retry で再入するステップを返します。
//
//   - SigningFailed        -> Signing（再アップロード・再承認はしない）
//   - Approval/SendingFailed -> Approving（メタデータ URI は再利用）
//   - MetadataUploadFailed -> MetadataUploading（JSON を組み直して再アップロード）
//
// 失敗状態以外からは再入不可（ok=false）。
func (s Step) RetryTarget() (Step, bool) {
	switch s {
	case StepSigningFailed:
		return StepSigning, true
	case StepApprovalFailed, StepSendingFailed:
		return StepApproving, true
	case StepMetadataUploadFailed:
		return StepMetadataUploading, true
	}
	return s, false
}

// Skippable は Skip（アイテムを Failed 扱いにして次へ進む）を許すかどうかです。
// SigningFailed はオンチェーンのミント自体は成功しているため Skip を出しません
// （Retry で署名だけやり直す）。
func (s Step) Skippable() bool {
	return s.Failed() && s != StepSigningFailed
}
