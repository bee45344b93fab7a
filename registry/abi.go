package registry

// registryABI is the event surface of the zDAO registry contract the reader decodes.
const registryABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "uint256", "name": "daoId", "type": "uint256"},
			{"indexed": false, "internalType": "string", "name": "ensSpace", "type": "string"},
			{"indexed": false, "internalType": "address", "name": "gnosisSafe", "type": "address"}
		],
		"name": "DAOCreated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "uint256", "name": "daoId", "type": "uint256"},
			{"indexed": true, "internalType": "uint256", "name": "zNA", "type": "uint256"}
		],
		"name": "LinkAdded",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "uint256", "name": "daoId", "type": "uint256"},
			{"indexed": true, "internalType": "uint256", "name": "zNA", "type": "uint256"}
		],
		"name": "LinkRemoved",
		"type": "event"
	}
]`
