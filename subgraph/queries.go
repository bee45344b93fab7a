package subgraph

const zDAOFields = `
	id
	zDAOId
	name
	createdBy
	gnosisSafe
	ensSpace
	platformType
	destroyed
	zNAs {
		id
	}
`

var zDAORecordsQuery = `
	query ZDAORecords($platformType: Int!, $first: Int!, $skip: Int!) {
		zdaorecords(first: $first, skip: $skip, orderBy: zDAOId, where: {platformType: $platformType, destroyed: false}) {` +
	zDAOFields + `
		}
	}
`

var zDAORecordQuery = `
	query ZDAORecord($platformType: Int!, $zDAOId: BigInt!) {
		zdaorecords(where: {platformType: $platformType, zDAOId: $zDAOId}) {` +
	zDAOFields + `
		}
	}
`

var zNAAssociationQuery = `
	query ZNAAssociation($zNA: String!) {
		znaassociations(where: {id: $zNA}) {
			id
			zDAORecord {` +
	zDAOFields + `
			}
		}
	}
`

const executedProposalsQuery = `
	query ExecutedProposals($zDAOId: BigInt!, $first: Int!, $skip: Int!) {
		executedProposals(first: $first, skip: $skip, where: {zDAOId: $zDAOId}) {
			proposalId
			executedBy
			txHash
		}
	}
`
