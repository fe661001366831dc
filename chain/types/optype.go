package types

// OpType is the tag of an operation kind
type OpType byte

const (
	TypeTransfer                              OpType = 0x00
	TypeAccountCreate                         OpType = 0x01
	TypeAccountUpdate                         OpType = 0x02
	TypeAccountWhitelist                      OpType = 0x03
	TypeAccountUpgrade                        OpType = 0x04
	TypeCommitteeMemberCreate                 OpType = 0x05
	TypeCommitteeMemberUpdate                 OpType = 0x06
	TypeCommitteeMemberUpdateGlobalParameters OpType = 0x07
	TypeOverrideTransfer                      OpType = 0x08
	TypeTransferV2                            OpType = 0x09
	TypeCommitteeMemberUpdateCoreAsset        OpType = 0x0A

	OpTypeCount = 0x0B
)

var opTypeNames = [OpTypeCount]string{
	TypeTransfer:                              "transfer",
	TypeAccountCreate:                         "account_create",
	TypeAccountUpdate:                         "account_update",
	TypeAccountWhitelist:                      "account_whitelist",
	TypeAccountUpgrade:                        "account_upgrade",
	TypeCommitteeMemberCreate:                 "committee_member_create",
	TypeCommitteeMemberUpdate:                 "committee_member_update",
	TypeCommitteeMemberUpdateGlobalParameters: "committee_member_update_global_parameters",
	TypeOverrideTransfer:                      "override_transfer",
	TypeTransferV2:                            "transfer_v2",
	TypeCommitteeMemberUpdateCoreAsset:        "committee_member_update_core_asset",
}

func (t OpType) String() string {
	if !t.IsValid() {
		return "unknown"
	}
	return opTypeNames[t]
}

func (t OpType) IsValid() bool {
	return int(t) < OpTypeCount
}
