package factorydto

type DeployTokenInput struct {
	TotalSupply     uint64
	Name            string
	Symbol          string
	Icon            string
	PublicKey       string
	AttachedDeposit uint64
}
