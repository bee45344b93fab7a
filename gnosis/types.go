package gnosis

import "encoding/json"

// ChainIDs maps the supported network names onto gateway chain ids.
var ChainIDs = map[string]uint64{
	"mainnet": 1,
	"goerli":  5,
	"sepolia": 11155111,
	"polygon": 137,
	"mumbai":  80001,
}

type balancesResponse struct {
	FiatTotal string        `json:"fiatTotal"`
	Items     []balanceItem `json:"items"`
}

type balanceItem struct {
	TokenInfo struct {
		Type     string       `json:"type"`
		Address  string       `json:"address"`
		Decimals *json.Number `json:"decimals"`
		Symbol   string       `json:"symbol"`
		Name     string       `json:"name"`
		LogoURI  string       `json:"logoUri"`
	} `json:"tokenInfo"`
	Balance     json.Number `json:"balance"`
	FiatBalance json.Number `json:"fiatBalance"`
}

type collectibleItem struct {
	Address     string `json:"address"`
	TokenName   string `json:"tokenName"`
	TokenSymbol string `json:"tokenSymbol"`
	LogoURI     string `json:"logoUri"`
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURI    string `json:"imageUri"`
}

// item types of the transaction history
const (
	itemTransaction = "TRANSACTION"
	txInfoTransfer  = "Transfer"
)

type historyPage struct {
	Next    *string       `json:"next"`
	Results []historyItem `json:"results"`
}

type historyItem struct {
	Type        string              `json:"type"`
	Transaction *transactionSummary `json:"transaction"`
}

type transactionSummary struct {
	ID        string      `json:"id"`
	Timestamp json.Number `json:"timestamp"`
	TxStatus  string      `json:"txStatus"`
	TxInfo    struct {
		Type         string        `json:"type"`
		Sender       *addressEx    `json:"sender"`
		Recipient    *addressEx    `json:"recipient"`
		Direction    string        `json:"direction"`
		TransferInfo *transferInfo `json:"transferInfo"`
	} `json:"txInfo"`
}

type addressEx struct {
	Value string `json:"value"`
}

type transferInfo struct {
	Type         string       `json:"type"`
	TokenAddress string       `json:"tokenAddress"`
	TokenID      string       `json:"tokenId"`
	TokenName    string       `json:"tokenName"`
	TokenSymbol  string       `json:"tokenSymbol"`
	LogoURI      string       `json:"logoUri"`
	Decimals     *json.Number `json:"decimals"`
	Value        json.Number  `json:"value"`
}
