package resource

type Type string

const (
	TypeStaff     Type = "staff"
	TypeRoom      Type = "room"
	TypeEquipment Type = "equipment"
)

func (t Type) Valid() bool {
	switch t {
	case TypeStaff, TypeRoom, TypeEquipment:
		return true
	}
	return false
}

type BlockType string

const (
	BlockVacation    BlockType = "vacation"
	BlockSickLeave   BlockType = "sick_leave"
	BlockMaintenance BlockType = "maintenance"
	BlockBreak       BlockType = "break"
	BlockTraining    BlockType = "training"
	BlockOther       BlockType = "other"
)

func (b BlockType) Valid() bool {
	switch b {
	case BlockVacation, BlockSickLeave, BlockMaintenance, BlockBreak, BlockTraining, BlockOther:
		return true
	}
	return false
}
